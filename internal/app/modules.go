package app

import (
	"github.com/omicsworks/gutmetrics/internal/registry"
	"github.com/omicsworks/gutmetrics/modules/cleaning"
	"github.com/omicsworks/gutmetrics/modules/cleanup"
	"github.com/omicsworks/gutmetrics/modules/csv"
	"github.com/omicsworks/gutmetrics/modules/envvars"
	"github.com/omicsworks/gutmetrics/modules/exec"
	"github.com/omicsworks/gutmetrics/modules/fetch"
	"github.com/omicsworks/gutmetrics/modules/framestore"
	"github.com/omicsworks/gutmetrics/modules/print"
	"github.com/omicsworks/gutmetrics/modules/scaling"
	"github.com/omicsworks/gutmetrics/modules/validate"
)

// CoreModules returns the set of built-in modules shipped with the binary.
func CoreModules() []registry.Module {
	return []registry.Module{
		&framestore.Module{},
		&csv.Module{},
		&cleaning.Module{},
		&validate.Module{},
		&scaling.Module{},
		&exec.Module{},
		&cleanup.Module{},
		&fetch.Module{},
		&envvars.Module{},
		&print.Module{},
	}
}
