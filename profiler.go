package cubefield

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler accumulates scope timings and counters between reports.
type Profiler struct {
	Interval time.Duration

	scopes     map[string]time.Duration
	startTimes map[string]time.Time
	counts     map[string]int
	order      []string

	frames      int
	windowStart time.Time
	now         func() time.Time
}

func NewProfiler(interval time.Duration) *Profiler {
	return &Profiler{
		Interval:   interval,
		scopes:     make(map[string]time.Duration),
		startTimes: make(map[string]time.Time),
		counts:     make(map[string]int),
		now:        time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.startTimes[name] = p.now()
	if _, seen := p.scopes[name]; !seen {
		p.scopes[name] = 0
		p.order = append(p.order, name)
	}
}

// EndScope adds the time since the matching BeginScope to the scope total.
func (p *Profiler) EndScope(name string) {
	if start, ok := p.startTimes[name]; ok {
		p.scopes[name] += p.now().Sub(start)
		delete(p.startTimes, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.counts[name] = count
}

func (p *Profiler) Frames() int {
	return p.frames
}

func (p *Profiler) Reset() {
	for k := range p.scopes {
		p.scopes[k] = 0
	}
	p.frames = 0
	p.windowStart = p.now()
}

// Tick counts a frame and reports whether the interval has elapsed.
func (p *Profiler) Tick() bool {
	if p.windowStart.IsZero() {
		p.windowStart = p.now()
	}
	p.frames++
	return p.Interval > 0 && p.now().Sub(p.windowStart) >= p.Interval
}

// Summary renders per-frame averages for the current window.
func (p *Profiler) Summary() string {
	var sb strings.Builder
	elapsed := p.now().Sub(p.windowStart)
	if elapsed > 0 && p.frames > 0 {
		fmt.Fprintf(&sb, "%.1f fps", float64(p.frames)/elapsed.Seconds())
	}
	for _, name := range p.order {
		if p.frames == 0 {
			break
		}
		avg := p.scopes[name] / time.Duration(p.frames)
		fmt.Fprintf(&sb, " %s=%.2fms", name, float64(avg.Microseconds())/1000.0)
	}

	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%d", k, p.counts[k])
	}
	return strings.TrimSpace(sb.String())
}

func profilerSystem(p *Profiler, cmd *Commands) {
	if p.Tick() {
		cmd.Logger().Infof("frame stats: %s", p.Summary())
		p.Reset()
	}
}
