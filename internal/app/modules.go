package app

import (
	"github.com/vk/splashload/internal/registry"
	"github.com/vk/splashload/modules/controllers"
	"github.com/vk/splashload/modules/env_vars"
	"github.com/vk/splashload/modules/http_client"
	"github.com/vk/splashload/modules/print"
	"github.com/vk/splashload/modules/widgets"
)

// coreModules is the definitive list of all component modules that are
// compiled into the splashload binary.
var coreModules = []registry.Module{
	&controllers.Module{},
	&widgets.Module{},
	&env_vars.Module{},
	&print.Module{},
	&http_client.Module{},
}
