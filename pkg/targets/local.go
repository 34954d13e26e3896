package targets

import (
	"github.com/projectdiscovery/nbtscan/pkg/peerdiscovery/common"
	errorutil "github.com/projectdiscovery/utils/errors"
)

// Local returns a source covering the private /24 networks of the local
// interfaces.
func Local() (Source, error) {
	networks, err := common.GetLocalNetworks24()
	if err != nil {
		return nil, errorutil.NewWithErr(err).Msgf("could not list local networks")
	}
	if len(networks) == 0 {
		return nil, errorutil.New("no private IPv4 networks found on local interfaces")
	}

	sources := make([]Source, 0, len(networks))
	for _, network := range networks {
		source, err := parseCIDR(network.String())
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return Multi(sources...), nil
}
