//go:build linux
// +build linux

//-----------------------------------------------------------------------------
// Copyright (C) Microsoft. All rights reserved.
// Licensed under the MIT license.
// See LICENSE.txt file in the project root for full license information.
//-----------------------------------------------------------------------------
package stats

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type osStats struct {
}

func (s osStats) GetNetDevStats() ([]NetDevStat, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return nil, errors.Wrap(err, "GetNetDevStats: error getting network interfaces")
	}

	netStatsFile, err := os.Open("/proc/net/dev")
	if err != nil {
		return nil, errors.Wrap(err, "GetNetDevStats: error opening /proc/net/dev")
	}
	defer netStatsFile.Close()

	devs, err := parseNetDev(netStatsFile)
	if err != nil {
		return nil, err
	}

	var res []NetDevStat
	for _, d := range devs {
		if isIfUp(d.InterfaceName, ifs) {
			res = append(res, d)
		}
	}
	return res, nil
}

func parseNetDev(r io.Reader) ([]NetDevStat, error) {
	// Inter-|   Receive                                             |  Transmit
	//  face |bytes packets errs drop fifo frame compressed multicast|bytes packets errs drop fifo colls carrier compressed
	scanner := bufio.NewScanner(r)
	var res []NetDevStat
	for lineNo := 0; scanner.Scan(); lineNo++ {
		if lineNo < 2 {
			continue
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		devStat, err := buildNetDevStat(line)
		if err != nil {
			return nil, errors.Wrap(err, "parseNetDev: could not build interface stats")
		}
		res = append(res, devStat)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "parseNetDev: read failed")
	}
	return res, nil
}

func buildNetDevStat(line string) (NetDevStat, error) {
	// "eth0:123" has no space after the colon when the counter is wide.
	line = strings.Replace(line, ":", " ", 1)
	fields := strings.Fields(line)

	if len(fields) < 17 {
		return NetDevStat{}, errors.New(
			fmt.Sprintf(
				"buildNetDevStat: unexpected net stats file format, erroneous line %s",
				line))
	}

	rx, err := toUints(fields[1:3])
	if err != nil {
		return NetDevStat{}, errors.Wrap(err, "buildNetDevStat: error parsing rx counters")
	}
	tx, err := toUints(fields[9:11])
	if err != nil {
		return NetDevStat{}, errors.Wrap(err, "buildNetDevStat: error parsing tx counters")
	}

	return NetDevStat{
		InterfaceName: fields[0],
		RxBytes:       rx[0],
		RxPkts:        rx[1],
		TxBytes:       tx[0],
		TxPkts:        tx[1],
	}, nil
}

func toUints(fields []string) ([]uint64, error) {
	out := make([]uint64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "toUints: error in string conversion")
		}
		out[i] = v
	}
	return out, nil
}

func isIfUp(ifName string, ifs []net.Interface) bool {
	for _, ifi := range ifs {
		if ifi.Name == ifName {
			return ifi.Flags&net.FlagUp != 0
		}
	}
	return false
}

func (s osStats) GetTCPStats() (TCPStat, error) {
	snmpStatsFile, err := os.Open("/proc/net/snmp")
	if err != nil {
		return TCPStat{}, errors.Wrap(err, "GetTCPStats: error opening /proc/net/snmp")
	}
	defer snmpStatsFile.Close()

	retransSeg, err := parseSNMP(snmpStatsFile)
	if err != nil {
		return TCPStat{}, errors.Wrap(err, "GetTCPStats: could not parse /proc/net/snmp")
	}
	return TCPStat{SegRetrans: retransSeg}, nil
}

// parseSNMP looks for the RetransSegs column of the Tcp table.
func parseSNMP(r io.Reader) (uint64, error) {
	// Tcp: RtoAlgorithm RtoMin RtoMax MaxConn ActiveOpens PassiveOpens AttemptFails EstabResets
	//      CurrEstab InSegs OutSegs RetransSegs InErrs OutRsts InCsumErrors
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Tcp:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 13 {
			continue
		}
		v, err := strconv.ParseUint(fields[12], 10, 64)
		if err != nil {
			// header row
			continue
		}
		return v, nil
	}
	return 0, errors.New("parseSNMP: could not find a valid number")
}
