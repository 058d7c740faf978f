//-----------------------------------------------------------------------------
// Copyright (C) Microsoft. All rights reserved.
// Licensed under the MIT license.
// See LICENSE.txt file in the project root for full license information.
//-----------------------------------------------------------------------------
package stats

import (
	"time"

	"github.com/pkg/errors"
)

var ErrUnsupported = errors.New("host network statistics are not supported on this platform")

type OSStats interface {
	GetNetDevStats() ([]NetDevStat, error)
	GetTCPStats() (TCPStat, error)
}

// GetOSStats returns host network statistics, dependant on the build flag
func GetOSStats() OSStats {
	return osStats{}
}

type NetDevStat struct {
	InterfaceName string
	RxBytes       uint64
	TxBytes       uint64
	RxPkts        uint64
	TxPkts        uint64
}

type TCPStat struct {
	SegRetrans uint64
}

type NetStats struct {
	Taken   time.Time
	Devices []NetDevStat
	TCP     TCPStat
}

// Snapshot collects device and TCP counters. A failure of either source
// leaves that part zeroed and is reported in err.
func Snapshot(s OSStats) (NetStats, error) {
	ns := NetStats{Taken: time.Now()}
	devs, devErr := s.GetNetDevStats()
	ns.Devices = devs
	tcp, tcpErr := s.GetTCPStats()
	ns.TCP = tcp
	if devErr != nil {
		return ns, devErr
	}
	return ns, tcpErr
}

// Rate is the per-second change of a device between two snapshots.
type Rate struct {
	InterfaceName string
	RxBytes       uint64
	TxBytes       uint64
	RxPkts        uint64
	TxPkts        uint64
}

// DeviceRates pairs devices of cur with prev by name. Devices absent from
// prev, or whose counters went backwards, are skipped.
func DeviceRates(prev, cur NetStats) []Rate {
	secs := uint64(cur.Taken.Sub(prev.Taken) / time.Second)
	if secs == 0 {
		secs = 1
	}
	old := make(map[string]NetDevStat, len(prev.Devices))
	for _, d := range prev.Devices {
		old[d.InterfaceName] = d
	}
	var rates []Rate
	for _, d := range cur.Devices {
		p, ok := old[d.InterfaceName]
		if !ok || d.RxBytes < p.RxBytes || d.TxBytes < p.TxBytes || d.RxPkts < p.RxPkts || d.TxPkts < p.TxPkts {
			continue
		}
		rates = append(rates, Rate{
			InterfaceName: d.InterfaceName,
			RxBytes:       (d.RxBytes - p.RxBytes) / secs,
			TxBytes:       (d.TxBytes - p.TxBytes) / secs,
			RxPkts:        (d.RxPkts - p.RxPkts) / secs,
			TxPkts:        (d.TxPkts - p.TxPkts) / secs,
		})
	}
	return rates
}

// RetransDelta is the number of TCP segments retransmitted between prev and
// cur, or zero if the counter was reset.
func RetransDelta(prev, cur TCPStat) uint64 {
	if cur.SegRetrans < prev.SegRetrans {
		return 0
	}
	return cur.SegRetrans - prev.SegRetrans
}
