package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/truckrun/ecs/component"
	"golang.org/x/image/font/basicfont"
)

const touchButtonSize = 96

// NewTouchUI builds on-screen left, right and jump buttons. Each button is
// its own input source, touch:<control>, so it combines with the keyboard.
func NewTouchUI(sink inputSink) *ebitenui.UI {
	idle := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 120})
	pressed := imageui.NewNineSliceColor(color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 180})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	textColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	button := func(label string, c component.Control) *widget.Button {
		source := "touch:" + c.String()
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: idle, Hover: idle, Pressed: pressed}),
			widget.ButtonOpts.Text(label, &face, textColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(touchButtonSize, touchButtonSize)),
			widget.ButtonOpts.PressedHandler(func(args *widget.ButtonPressedEventArgs) {
				sink.PushInput(c, source, true)
			}),
			widget.ButtonOpts.ReleasedHandler(func(args *widget.ButtonReleasedEventArgs) {
				sink.PushInput(c, source, false)
			}),
		)
	}

	drive := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(16),
			widget.RowLayoutOpts.Padding(&widget.Insets{Bottom: 24, Left: 24}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionEnd}),
		),
	)
	drive.AddChild(button("<", component.ControlLeft))
	drive.AddChild(button(">", component.ControlRight))

	jump := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Padding(&widget.Insets{Bottom: 24, Right: 24}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionEnd, VerticalPosition: widget.AnchorLayoutPositionEnd}),
		),
	)
	jump.AddChild(button("Jump", component.ControlJump))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(drive)
	root.AddChild(jump)

	return &ebitenui.UI{Container: root}
}
