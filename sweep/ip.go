package sweep

type IPVersion int

const (
	IPAny IPVersion = -1
	IPv4  IPVersion = 4
	IPv6  IPVersion = 6
)

func TCPVersion(v IPVersion) string {
	if v == IPv4 {
		return "tcp4"
	} else if v == IPv6 {
		return "tcp6"
	}
	return "tcp"
}

// IPVersionFromFlags mirrors the -4/-6 pair: neither or both selects IPAny.
func IPVersionFromFlags(useIPv4, useIPv6 bool) IPVersion {
	if useIPv4 == useIPv6 {
		return IPAny
	}
	if useIPv6 {
		return IPv6
	}
	return IPv4
}
