package analyzer

import (
	"sort"
	"time"

	"github.com/logsieve/logsieve/pkg/iputil"
	"github.com/logsieve/logsieve/pkg/rules"
)

// topIPLimit caps the most-active ranking; suspicious IPs are unbounded.
const topIPLimit = 20

// ipTracker accumulates per-address activity during one analysis.
type ipTracker struct {
	stats map[string]*IPStat
}

func newIPTracker() *ipTracker {
	return &ipTracker{stats: make(map[string]*IPStat)}
}

// observe records one sighting of an address. A zero timestamp leaves the
// first/last-seen window untouched.
func (t *ipTracker) observe(ip string, timestamp time.Time) {
	if !iputil.IsValid(ip) {
		return
	}
	stat := t.stats[ip]
	if stat == nil {
		stat = &IPStat{
			IP:        ip,
			IsPrivate: iputil.IsPrivate(ip),
		}
		t.stats[ip] = stat
	}
	stat.Count++
	if timestamp.IsZero() {
		return
	}
	if stat.FirstSeen.IsZero() || timestamp.Before(stat.FirstSeen) {
		stat.FirstSeen = timestamp
	}
	if timestamp.After(stat.LastSeen) {
		stat.LastSeen = timestamp
	}
}

// associate links a detection to every tracked address its matched text
// contains. Only addresses already observed as an entry's source IP take
// part; an address that shows up solely inside matched text is not a
// sighting and never enters the stat map.
func (t *ipTracker) associate(d rules.Detection) {
	for _, ip := range iputil.ExtractIPv4s(d.MatchedText) {
		if stat, ok := t.stats[ip]; ok {
			stat.Detections = append(stat.Detections, d)
		}
	}
}

// report finalizes the tracker into an IPReport. Rankings sort by count
// descending with the address string as tiebreak so output is stable.
func (t *ipTracker) report() IPReport {
	report := IPReport{
		TopIPs:        []*IPStat{},
		SuspiciousIPs: []*IPStat{},
	}

	all := make([]*IPStat, 0, len(t.stats))
	for _, stat := range t.stats {
		all = append(all, stat)
		if stat.IsPrivate {
			report.PrivateIPs++
		} else {
			report.PublicIPs++
		}
		if !stat.IsPrivate {
			stat.Geolocation = iputil.Geolocate(stat.IP)
		}
	}
	report.TotalUniqueIPs = len(all)

	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].IP < all[j].IP
	})

	for _, stat := range all {
		if len(report.TopIPs) < topIPLimit {
			report.TopIPs = append(report.TopIPs, stat)
		}
		if len(stat.Detections) > 0 {
			report.SuspiciousIPs = append(report.SuspiciousIPs, stat)
		}
	}
	return report
}
