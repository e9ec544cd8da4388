// Package callouts generates and removes design callouts on a page.
//
// For each target frame the [Generator] collects the annotations inside it,
// numbers them in reading order, and draws a marker, a callout card and a
// connector per annotation. Everything it creates ends up in a single group
// named [GroupName], which is how later runs find and replace it:
//
//	g := callouts.New(callouts.WithLogger(logger))
//	note := g.Run(ctx, page, callouts.CommandGenerate)
//	if note.Error {
//	    return note.Err()
//	}
//	fmt.Println(note.Message) // Generated 4 callouts across 2 frames
//
// [Targets] mirrors how a designer picks frames: selected frames win,
// otherwise every top-level frame on the page is used.
package callouts
