// Package filesystem traverses file trees with the ignore rules a project
// scaffolder needs.
//
// Walk works on any fs.FS, so the same code serves embedded templates and
// directories on disk:
//
//	err := filesystem.Walk(templates.FS, "application", filesystem.WalkOptions{
//	    IncludeHidden: true,
//	}, func(path string, d fs.DirEntry) error {
//	    fmt.Println(path)
//	    return nil
//	})
package filesystem
