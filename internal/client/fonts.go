package client

import "slices"

// Fonts 是可选的界面字体，第一项为默认值。
var Fonts = []string{
	"Inter",
	"Noto Sans JP",
	"Roboto",
	"Lato",
	"Open Sans",
	"Source Code Pro",
}

// IsKnownFont 报告 name 是否在 Fonts 中。
func IsKnownFont(name string) bool {
	return slices.Contains(Fonts, name)
}
