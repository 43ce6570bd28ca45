// Package generator writes generated projects to disk.
//
// # Operations
//
// Each file becomes a WriteFileOp. Execute validates every operation before
// touching the disk and can report instead of write:
//
//	ops := generator.Plan(dir, files)
//	err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: true})
//
// # Transactions
//
// WriteTree stages a whole file mapping in a Transaction:
//
//	tx := generator.NewTransaction()
//	tx.AddFile("package.json", manifest, 0644)
//	tx.AddFile("babel.config.js", babel, 0644)
//
//	if err := tx.Commit(); err != nil {
//	    // New files are removed and overwritten files restored.
//	    return err
//	}
//
// # Templates
//
// CopyTree copies an embedded template directory, rendering files that end
// in ".tmpl" with the Renderer and dropping the suffix.
package generator
