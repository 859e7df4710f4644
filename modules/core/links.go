package core

import (
	"github.com/simple-lms/console/pkg/types"
)

// NavItems is the sidebar: one entry per console module.
var NavItems = types.Modules()
