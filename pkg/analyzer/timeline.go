package analyzer

import (
	"container/heap"
	"sort"
	"time"

	"github.com/logsieve/logsieve/pkg/rules"
)

// maxBucketEvents caps the per-bucket event list so a noisy hour cannot
// bloat the report. Counters keep counting past the cap.
const maxBucketEvents = 100

// buildTimeline buckets timestamped detections by hour, ascending.
// Detections without a timestamp are left out.
func buildTimeline(detections []rules.Detection) []TimelineBucket {
	buckets := make(map[time.Time]*TimelineBucket)
	for _, d := range detections {
		if d.Timestamp.IsZero() {
			continue
		}
		hour := d.Timestamp.Truncate(time.Hour)
		bucket := buckets[hour]
		if bucket == nil {
			bucket = &TimelineBucket{
				Timestamp:  hour,
				BySeverity: make(map[string]int),
				ByCategory: make(map[string]int),
			}
			buckets[hour] = bucket
		}
		bucket.TotalDetections++
		bucket.BySeverity[string(d.Severity)]++
		bucket.ByCategory[d.Category]++
		if len(bucket.Events) < maxBucketEvents {
			bucket.Events = append(bucket.Events, TimelineEvent{
				Rule:     d.RuleName,
				Severity: string(d.Severity),
				Category: d.Category,
				Line:     d.LineNumber,
			})
		}
	}

	timeline := make([]TimelineBucket, 0, len(buckets))
	for _, bucket := range buckets {
		timeline = append(timeline, *bucket)
	}
	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].Timestamp.Before(timeline[j].Timestamp)
	})
	return timeline
}

// bucketHeap is a min-heap over the heads of several sorted timelines,
// used to merge them in one pass.
type bucketHeap []bucketCursor

type bucketCursor struct {
	buckets []TimelineBucket
	pos     int
}

func (h bucketHeap) Len() int { return len(h) }

func (h bucketHeap) Less(i, j int) bool {
	return h[i].head().Timestamp.Before(h[j].head().Timestamp)
}

func (h bucketHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *bucketHeap) Push(x any) { *h = append(*h, x.(bucketCursor)) }

func (h *bucketHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (c bucketCursor) head() TimelineBucket { return c.buckets[c.pos] }

// mergeTimelines combines several sorted timelines into one, folding
// buckets that share an hour. Event lists are concatenated up to the
// per-bucket cap; counters are summed without a cap.
func mergeTimelines(timelines [][]TimelineBucket) []TimelineBucket {
	h := make(bucketHeap, 0, len(timelines))
	for _, tl := range timelines {
		if len(tl) > 0 {
			h = append(h, bucketCursor{buckets: tl})
		}
	}
	heap.Init(&h)

	var merged []TimelineBucket
	for h.Len() > 0 {
		cursor := heap.Pop(&h).(bucketCursor)
		bucket := cursor.head()

		if n := len(merged); n > 0 && merged[n-1].Timestamp.Equal(bucket.Timestamp) {
			foldBucket(&merged[n-1], bucket)
		} else {
			merged = append(merged, copyBucket(bucket))
		}

		cursor.pos++
		if cursor.pos < len(cursor.buckets) {
			heap.Push(&h, cursor)
		}
	}
	return merged
}

func copyBucket(b TimelineBucket) TimelineBucket {
	out := TimelineBucket{
		Timestamp:       b.Timestamp,
		TotalDetections: b.TotalDetections,
		BySeverity:      make(map[string]int, len(b.BySeverity)),
		ByCategory:      make(map[string]int, len(b.ByCategory)),
		Events:          append([]TimelineEvent(nil), b.Events...),
	}
	for k, v := range b.BySeverity {
		out.BySeverity[k] = v
	}
	for k, v := range b.ByCategory {
		out.ByCategory[k] = v
	}
	return out
}

func foldBucket(dst *TimelineBucket, src TimelineBucket) {
	dst.TotalDetections += src.TotalDetections
	for k, v := range src.BySeverity {
		dst.BySeverity[k] += v
	}
	for k, v := range src.ByCategory {
		dst.ByCategory[k] += v
	}
	for _, ev := range src.Events {
		if len(dst.Events) >= maxBucketEvents {
			break
		}
		dst.Events = append(dst.Events, ev)
	}
}
