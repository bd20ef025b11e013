// Package ui provides semantic text formatting for CLI output.
//
// Formatters render with color when the terminal supports it. When NO_COLOR
// is set or the terminal cannot show colors, text decorations are used
// instead:
//
//	ui.Code.Sprint("nodekeys config init")  // `nodekeys config init`
//	ui.Folder.Sprint("Documents")           // Documents/
//	ui.NodeID.Sprint("a1B2c3D4")            // [a1B2c3D4]
//	ui.Muted.Sprint("4.0 KiB")              // (4.0 KiB)
//
// Path, Flag, Success, Error, Warning and Info carry no decoration.
package ui
