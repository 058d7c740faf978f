//go:build !linux
// +build !linux

package stats

type osStats struct{}

func (s osStats) GetNetDevStats() ([]NetDevStat, error) {
	return nil, ErrUnsupported
}

func (s osStats) GetTCPStats() (TCPStat, error) {
	return TCPStat{}, ErrUnsupported
}
