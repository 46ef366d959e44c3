// Package files stores uploaded workbooks.
//
// Manager saves each upload under a new name of the form
// <kind>_<timestamp>_<id>_<original name> in the upload directory, so
// repeated uploads never collide. Resolve confines client-supplied paths
// to that directory and rejects anything that escapes it.
//
// Example usage:
//
//	manager, err := files.NewManager(cfg.Paths.UploadDir, logger)
//	path, err := manager.Save(files.KindLeague, header.Filename, file)
//	...
//	path, err = manager.Resolve(req.LeaguePath)
package files
