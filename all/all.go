// Package all imports all supported catalog implementations.
//
// Import this package for its side effects to register every catalog:
//
//	import (
//		"github.com/git-pkgs/modsync"
//		_ "github.com/git-pkgs/modsync/all"
//	)
//
//	// Now all catalogs are available
//	catalogs := modsync.SupportedCatalogs()
//	// ["factorio"]
package all

import (
	_ "github.com/git-pkgs/modsync/internal/factorio"
)
