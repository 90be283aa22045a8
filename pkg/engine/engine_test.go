package engine

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-typegraph/pkg/attributes"
	"github.com/dd0wney/cluso-typegraph/pkg/category"
	"github.com/dd0wney/cluso-typegraph/pkg/config"
	"github.com/dd0wney/cluso-typegraph/pkg/edges"
	"github.com/dd0wney/cluso-typegraph/pkg/graph"
	"github.com/dd0wney/cluso-typegraph/pkg/logging"
	"github.com/dd0wney/cluso-typegraph/pkg/resolver"
)

func legacyBundle() attributes.Bundle {
	return attributes.NewBundle(map[string]attributes.Value{
		"frobulatable": attributes.BoolValue(true),
		"resonance":    attributes.IntValue(3),
	})
}

func newEngine(t *testing.T, opts ...func(*Options)) *Engine {
	t.Helper()
	o := Options{
		Colors: []string{"Blue", "Red", "Puce"},
		DefaultProvider: attributes.Static(attributes.Resolution{
			Color:      "Blue",
			Role:       category.Source,
			Attributes: legacyBundle(),
		}),
	}
	for _, fn := range opts {
		fn(&o)
	}
	e, err := New(o)
	require.NoError(t, err)
	return e
}

func static(color category.Color, role category.Role) attributes.Provider {
	return attributes.Static(attributes.Resolution{Color: color, Role: role})
}

func counter(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gauge(t *testing.T, g interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestNew_Options(t *testing.T) {
	_, err := New(Options{Colors: []string{"Blue"}})
	assert.ErrorIs(t, err, attributes.ErrNoDefaultProvider)

	_, err = New(Options{DefaultProvider: static("Blue", category.Source), ShardCount: 12})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "power of two")

	_, err = New(Options{Colors: []string{"Blue", "Blue"}, DefaultProvider: static("Blue", category.Source)})
	assert.ErrorIs(t, err, category.ErrDuplicateCategory)

	e := newEngine(t, func(o *Options) { o.ShardCount = 16 })
	_, err = uuid.Parse(e.ID())
	assert.NoError(t, err)
}

func TestEngines_ShareNoState(t *testing.T) {
	a := newEngine(t)
	b := newEngine(t)
	assert.NotEqual(t, a.ID(), b.ID())

	require.NoError(t, a.RegisterColor("Cerulean"))
	assert.True(t, a.IsKnownColor("Cerulean"))
	assert.False(t, b.IsKnownColor("Cerulean"))

	_, err := a.Construct(attributes.Specification{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), a.Stats().NodeCount)
	assert.Equal(t, uint64(0), b.Stats().NodeCount)
}

func TestScenario_DefaultProvider(t *testing.T) {
	e := newEngine(t)

	node, err := e.Construct(attributes.Specification{Kind: "greezelax"})
	require.NoError(t, err)
	assert.Equal(t, category.Color("Blue"), node.Color)
	assert.Equal(t, category.Source, node.Role)
	assert.True(t, node.Attributes.Equal(legacyBundle()), "attributes = %s", node.Attributes)

	stored, err := e.GetNode(node.ID)
	require.NoError(t, err)
	assert.Equal(t, node.ID, stored.ID)
}

func TestScenario_GravyWithoutCerulean(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.RegisterProvider("gravy", attributes.Static(attributes.Resolution{
		Color: "Cerulean",
		Role:  category.Middle,
		Attributes: attributes.NewBundle(map[string]attributes.Value{
			"frobulatable": attributes.BoolValue(false),
			"resonance":    attributes.IntValue(7),
		}),
	})))

	_, err := e.Construct(attributes.Specification{Style: "gravy"})
	require.Error(t, err)
	assert.ErrorIs(t, err, resolver.ErrUnresolvedCategory)

	var unresolved *resolver.UnresolvedCategoryError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, category.Color("Cerulean"), unresolved.Color)
	assert.Equal(t, uint64(0), e.Stats().NodeCount)

	// registering the color is the only change needed
	require.NoError(t, e.RegisterColor("Cerulean"))
	node, err := e.Construct(attributes.Specification{Style: "gravy"})
	require.NoError(t, err)
	assert.Equal(t, category.Middle, node.Role)
	n, _ := node.Attributes.Int("resonance")
	assert.Equal(t, int64(7), n)
}

func TestScenario_SourceSinkEdges(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.RegisterProvider("terminal", static("Puce", category.Sink)))

	a, err := e.Construct(attributes.Specification{})
	require.NoError(t, err)
	b, err := e.Construct(attributes.Specification{Style: "terminal"})
	require.NoError(t, err)

	_, err = e.AddEdge(b.ID, a.ID)
	assert.ErrorIs(t, err, edges.ErrIllegalEdge)
	var illegal *edges.IllegalEdgeError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, edges.ReasonSinkOrigin, illegal.Reason)

	edge, err := e.AddEdge(a.ID, b.ID)
	require.NoError(t, err)

	a, err = e.GetNode(a.ID)
	require.NoError(t, err)
	b, err = e.GetNode(b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{edge.ID}, a.Outgoing)
	assert.Empty(t, a.Incoming)
	assert.Equal(t, []uint64{edge.ID}, b.Incoming)
	assert.Empty(t, b.Outgoing)

	again, err := e.AddEdge(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, edge.ID, again.ID)
	assert.Equal(t, uint64(1), e.Stats().EdgeCount)

	m := e.Metrics()
	assert.Equal(t, 1.0, counter(t, m.EdgesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, counter(t, m.EdgesTotal.WithLabelValues("existing")))
	assert.Equal(t, 1.0, counter(t, m.EdgesTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, counter(t, m.IllegalEdgesTotal.WithLabelValues("sink_origin")))
	assert.Equal(t, 1.0, gauge(t, m.StoreEdgesTotal))
	assert.Equal(t, 2.0, gauge(t, m.StoreNodesTotal))
}

func TestUnknownProvider_NoFallback(t *testing.T) {
	e := newEngine(t)

	_, err := e.Construct(attributes.Specification{Style: "rodeo"})
	assert.ErrorIs(t, err, attributes.ErrUnknownProvider)
	var cerr *resolver.ConstructionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "rodeo", cerr.Style)
	assert.Equal(t, uint64(0), e.Stats().NodeCount)
	assert.Equal(t, 1.0, counter(t, e.Metrics().ConstructionsTotal.WithLabelValues("unregistered", "error")))
	assert.Equal(t, 0.0, counter(t, e.Metrics().ConstructionsTotal.WithLabelValues("rodeo", "error")))
}

func TestUnknownNode(t *testing.T) {
	e := newEngine(t)
	a, err := e.Construct(attributes.Specification{})
	require.NoError(t, err)

	_, err = e.AddEdge(a.ID, 999)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	_, err = e.GetNode(999)
	assert.True(t, graph.IsNotFound(err))
}

func TestRegistration(t *testing.T) {
	e := newEngine(t)

	require.NoError(t, e.RegisterColor("Cerulean"))
	err := e.RegisterColor("Cerulean")
	assert.ErrorIs(t, err, category.ErrDuplicateCategory)
	assert.Equal(t, []category.Color{"Blue", "Red", "Puce", "Cerulean"}, e.Colors())

	require.NoError(t, e.RegisterProvider("gravy", static("Red", category.Middle)))
	assert.ErrorIs(t, e.RegisterProvider("gravy", static("Blue", category.Sink)), attributes.ErrDuplicateProvider)
	assert.ErrorIs(t, e.RegisterProvider("", static("Blue", category.Sink)), attributes.ErrInvalidProvider)
	assert.Equal(t, []string{"gravy"}, e.Discriminants())

	m := e.Metrics()
	assert.Equal(t, 4.0, gauge(t, m.RegisteredColors))
	assert.Equal(t, 1.0, gauge(t, m.RegisteredProviders))
}

func TestReplace(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.RegisterProvider("relay", static("Red", category.Middle)))
	require.NoError(t, e.RegisterProvider("terminal", static("Puce", category.Sink)))

	a, err := e.Construct(attributes.Specification{})
	require.NoError(t, err)
	b, err := e.Construct(attributes.Specification{Style: "terminal"})
	require.NoError(t, err)
	edge, err := e.AddEdge(a.ID, b.ID)
	require.NoError(t, err)

	// a Sink cannot hold a's outgoing edge
	_, err = e.Replace(a.ID, attributes.Specification{Style: "terminal"})
	assert.ErrorIs(t, err, edges.ErrIllegalEdge)
	kept, err := e.GetNode(a.ID)
	require.NoError(t, err)
	assert.Equal(t, category.Source, kept.Role)

	replaced, err := e.Replace(a.ID, attributes.Specification{Style: "relay"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, replaced.ID)
	assert.Equal(t, category.Color("Red"), replaced.Color)
	assert.Equal(t, []uint64{edge.ID}, replaced.Outgoing)
	assert.Equal(t, a.CreatedAt, replaced.CreatedAt)

	assert.Empty(t, e.NodesByColor("Blue"))
	assert.Len(t, e.NodesByRole(category.Middle), 1)

	_, err = e.Replace(a.ID, attributes.Specification{Style: "missing"})
	assert.ErrorIs(t, err, attributes.ErrUnknownProvider)

	m := e.Metrics()
	assert.Equal(t, 1.0, counter(t, m.ReplacementsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, counter(t, m.ReplacementsTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, counter(t, m.IllegalEdgesTotal.WithLabelValues("sink_origin")))
}

func TestProviderError(t *testing.T) {
	e := newEngine(t)
	boom := errors.New("payload missing hat size")
	require.NoError(t, e.RegisterProvider("rodeo", attributes.ProviderFunc(func(attributes.Specification) (attributes.Resolution, error) {
		return attributes.Resolution{}, boom
	})))

	_, err := e.Construct(attributes.Specification{Style: "rodeo"})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, attributes.ErrProviderFailed)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	e := newEngine(t, func(o *Options) {
		o.Logger = logging.NewJSONLogger(&buf, logging.DebugLevel)
	})

	_, err := e.Construct(attributes.Specification{Style: "unknown"})
	require.Error(t, err)
	require.NoError(t, e.RegisterColor("Cerulean"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"engine started"`)
	assert.Contains(t, out, `"level":"WARN","msg":"construct"`)
	assert.Contains(t, out, `"msg":"color registered"`)
	assert.Contains(t, out, e.ID())
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "config", "testdata", "typegraph.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	e, err := FromConfig(cfg, Options{Logger: logging.NewJSONLogger(&buf, logging.InfoLevel)})
	require.NoError(t, err)
	assert.Equal(t, []string{"rodeo", "terminal"}, e.Discriminants())
	assert.Contains(t, buf.String(), `"shards":64`)

	src, err := e.Construct(attributes.Specification{})
	require.NoError(t, err)
	assert.True(t, src.Attributes.Equal(legacyBundle()))

	mid, err := e.Construct(attributes.Specification{Style: "rodeo"})
	require.NoError(t, err)
	_, err = e.AddEdge(src.ID, mid.ID)
	require.NoError(t, err)

	_, err = FromConfig(nil, Options{})
	assert.Error(t, err)
}

func TestFromConfig_Unvalidated(t *testing.T) {
	var (
		e   *Engine
		err error
	)
	require.NotPanics(t, func() {
		e, err = FromConfig(&config.Config{Colors: []string{"Blue"}}, Options{})
	})
	assert.Nil(t, e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DefaultProvider")
}

func TestRegistrationGauges_Concurrent(t *testing.T) {
	e := newEngine(t)

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, e.RegisterColor(fmt.Sprintf("Hue%d", i)))
			assert.NoError(t, e.RegisterProvider(fmt.Sprintf("style-%d", i), static("Blue", category.Sink)))
		}(i)
	}
	wg.Wait()

	m := e.Metrics()
	assert.Equal(t, float64(len(e.Colors())), gauge(t, m.RegisteredColors))
	assert.Equal(t, float64(len(e.Discriminants())), gauge(t, m.RegisteredProviders))
	assert.Equal(t, float64(3+workers), gauge(t, m.RegisteredColors))
}

func TestConcurrentConstructAndEdges(t *testing.T) {
	e := newEngine(t, func(o *Options) { o.ShardCount = 8 })
	require.NoError(t, e.RegisterProvider("terminal", static("Puce", category.Sink)))

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := e.Construct(attributes.Specification{})
			if err != nil {
				errs <- err
				return
			}
			b, err := e.Construct(attributes.Specification{Style: "terminal"})
			if err != nil {
				errs <- err
				return
			}
			if _, err := e.AddEdge(a.ID, b.ID); err != nil {
				errs <- err
				return
			}
			if _, err := e.AddEdge(b.ID, a.ID); !errors.Is(err, edges.ErrIllegalEdge) {
				errs <- fmt.Errorf("reverse edge: got %v", err)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	stats := e.Stats()
	assert.Equal(t, uint64(2*workers), stats.NodeCount)
	assert.Equal(t, uint64(workers), stats.EdgeCount)
	assert.Len(t, e.NodesByRole(category.Sink), workers)
	assert.False(t, strings.Contains(e.ID(), " "))
}
