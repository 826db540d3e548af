// Package model provides the geometry shared by the page writer and the
// slide layout: points, rectangles, page sizes and colours.
//
// All coordinates use the PDF convention: points (1/72 inch), origin at the
// lower-left corner of the page, Y increasing upwards.
//
//	page := model.Letter.Landscape()   // 792 x 612
//	box := model.NewBBox(50, page.Height-400, page.Width-100, 200)
//	inside := page.Bounds().ContainsBox(box)
package model
