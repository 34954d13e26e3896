package runner

import (
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/nbtscan/pkg/version"
)

const banner = `
        __    __
  ____ / /_  / /_______________ _____
 / __ \/ __ \/ __/ ___/ ___/ __ ` + "`" + `/ __ \
/ / / / /_/ / /_(__  ) /__/ /_/ / / / /
/_/ /_/_.___/\__/____/\___/\__,_/_/ /_/
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s  %s\n", banner, version.GetVersion())
	gologger.Print().Msgf("\t\tNetBIOS name scanner\n\n")
}
