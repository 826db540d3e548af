// Package pdf draws text and rectangles onto pages and writes them out as a
// PDF document using the standard fonts.
//
//	c := pdf.NewCanvas(model.Letter.Landscape())
//	c.SetFont("Helvetica-Bold", 28)
//	c.DrawString(50, c.Height()-80, "THE PROBLEM")
//	c.ShowPage()
//	data, err := c.Save()
//
// Coordinates are in points with the origin at the bottom-left corner of the
// page. Errors latch: once a call fails, later calls do nothing and Save
// returns the first error.
package pdf
