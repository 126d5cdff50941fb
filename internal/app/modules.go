package app

import (
	"github.com/specialistvlad/nsoverlay/internal/overrides"
	"github.com/specialistvlad/nsoverlay/modules/glib"
	"github.com/specialistvlad/nsoverlay/modules/gtk"
)

// coreModules is the definitive list of all override units that are
// compiled into the binary.
var coreModules = []overrides.Provider{
	&glib.Module{},
	&gtk.Module{},
}
