// Package discovery implements the on-demand network probe: a bounded
// TCP connect sweep over a CIDR range or an explicit target list, with
// reverse DNS lookups and matching against known inventory devices.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/homelabops/inventory/internal/model"
	"github.com/homelabops/inventory/internal/store"
	"golang.org/x/sync/errgroup"
)

// Guardrails keeping one probe request from turning into a scan job.
const (
	MaxTargets = 256
	MaxPorts   = 16
	MinTimeout = 100 * time.Millisecond
	MaxTimeout = 5 * time.Second
)

// defaultPorts is probed when the request names none.
var defaultPorts = []int{22, 80, 443, 9100}

// Result is the outcome of probing one address/port pair.
type Result struct {
	Address  string `json:"address"`
	Port     int    `json:"port"`
	Open     bool   `json:"open"`
	RTTMS    int64  `json:"rtt_ms"`
	Hostname string `json:"hostname,omitempty"`
	DeviceID *int   `json:"device_id,omitempty"`
}

// Response summarizes one probe sweep.
type Response struct {
	Probed     int      `json:"probed"`
	Responsive int      `json:"responsive"`
	Results    []Result `json:"results"`
}

// Prober runs probe sweeps against the network.
type Prober struct {
	store      store.Store
	logger     *slog.Logger
	maxWorkers int
	timeout    time.Duration
}

func NewProber(st store.Store, logger *slog.Logger, maxWorkers int, timeout time.Duration) *Prober {
	if maxWorkers <= 0 {
		maxWorkers = 32
	}
	return &Prober{store: st, logger: logger, maxWorkers: maxWorkers, timeout: timeout}
}

// Probe expands the request into (address, port) pairs and sweeps them
// with a bounded worker pool. Responsive addresses get a reverse DNS
// lookup and are matched against inventory devices by IP.
func (p *Prober) Probe(ctx context.Context, req model.ProbeRequest) (Response, error) {
	targets, err := expandTargets(req)
	if err != nil {
		return Response{}, err
	}
	ports := req.Ports
	if len(ports) == 0 {
		ports = defaultPorts
	}
	if len(ports) > MaxPorts {
		return Response{}, fmt.Errorf("too many ports: %d exceeds the limit of %d", len(ports), MaxPorts)
	}
	timeout := p.timeout
	if req.TimeoutMS > 0 {
		timeout = time.Duration(req.TimeoutMS) * time.Millisecond
	}
	timeout = min(max(timeout, MinTimeout), MaxTimeout)

	knownByIP, err := p.knownDevices(ctx)
	if err != nil {
		return Response{}, err
	}

	p.logger.InfoContext(ctx, "Probe sweep starting",
		slog.Int("targets", len(targets)),
		slog.Int("ports", len(ports)),
		slog.Duration("timeout", timeout),
	)

	results := make([]Result, len(targets)*len(ports))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.maxWorkers)
	for ti, target := range targets {
		for pi, port := range ports {
			i := ti*len(ports) + pi
			target, port := target, port
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				results[i] = probeOne(egCtx, target, port, timeout)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return Response{}, err
	}

	// One reverse lookup per responsive address, shared by its ports.
	hostnames := make(map[string]string)
	responsive := 0
	for i := range results {
		r := &results[i]
		if id, ok := knownByIP[r.Address]; ok {
			r.DeviceID = &id
		}
		if !r.Open {
			continue
		}
		responsive++
		name, looked := hostnames[r.Address]
		if !looked {
			name = reverseLookup(ctx, r.Address, timeout)
			hostnames[r.Address] = name
		}
		r.Hostname = name
	}

	p.logger.InfoContext(ctx, "Probe sweep finished",
		slog.Int("probed", len(results)),
		slog.Int("responsive", responsive),
	)
	return Response{Probed: len(results), Responsive: responsive, Results: results}, nil
}

// probeOne attempts a TCP connect to one address/port pair.
func probeOne(ctx context.Context, address string, port int, timeout time.Duration) Result {
	start := time.Now()
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	rtt := time.Since(start)
	if err != nil {
		return Result{Address: address, Port: port}
	}
	conn.Close()
	return Result{Address: address, Port: port, Open: true, RTTMS: rtt.Milliseconds()}
}

func reverseLookup(ctx context.Context, address string, timeout time.Duration) string {
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	names, err := net.DefaultResolver.LookupAddr(lookupCtx, address)
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}

// expandTargets resolves the request into a flat address list, either
// from an explicit target list or by enumerating a CIDR range. Network
// and broadcast addresses of IPv4 ranges are skipped.
func expandTargets(req model.ProbeRequest) ([]string, error) {
	if req.CIDR != "" && len(req.Targets) > 0 {
		return nil, fmt.Errorf("cidr and targets are mutually exclusive")
	}
	if req.CIDR == "" && len(req.Targets) == 0 {
		return nil, fmt.Errorf("either cidr or targets is required")
	}

	if len(req.Targets) > 0 {
		if len(req.Targets) > MaxTargets {
			return nil, fmt.Errorf("too many targets: %d exceeds the limit of %d", len(req.Targets), MaxTargets)
		}
		targets := slices.Clone(req.Targets)
		for i, t := range targets {
			targets[i] = strings.TrimSpace(t)
			if targets[i] == "" {
				return nil, fmt.Errorf("target %d is empty", i)
			}
		}
		return targets, nil
	}

	prefix, err := netip.ParsePrefix(req.CIDR)
	if err != nil {
		return nil, fmt.Errorf("invalid cidr %q: %w", req.CIDR, err)
	}
	prefix = prefix.Masked()
	if !prefix.Addr().Is4() {
		return nil, fmt.Errorf("only IPv4 ranges can be swept")
	}

	var targets []string
	skipEdges := prefix.Bits() < 31
	for addr := prefix.Addr(); prefix.Contains(addr); addr = addr.Next() {
		if skipEdges && (addr == prefix.Addr() || !prefix.Contains(addr.Next())) {
			continue
		}
		targets = append(targets, addr.String())
		if len(targets) > MaxTargets {
			return nil, fmt.Errorf("range %s exceeds the limit of %d targets", req.CIDR, MaxTargets)
		}
	}
	return targets, nil
}

// knownDevices maps inventory IP addresses to device IDs for result
// matching.
func (p *Prober) knownDevices(ctx context.Context) (map[string]int, error) {
	hasIP := true
	devices, _, err := p.store.ListDevices(ctx, store.DeviceFilter{HasIP: &hasIP})
	if err != nil {
		return nil, fmt.Errorf("list known devices: %w", err)
	}
	byIP := make(map[string]int, len(devices))
	for _, d := range devices {
		byIP[d.IPAddress] = d.ID
	}
	return byIP, nil
}
