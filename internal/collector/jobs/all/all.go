// Package all imports every job package for side-effect registration.
//
//	import _ "github.com/Vodeneev/collegetennis/internal/collector/jobs/all"
package all

import (
	_ "github.com/Vodeneev/collegetennis/internal/collector/reconcile"
	_ "github.com/Vodeneev/collegetennis/internal/collector/syncer"
)
