package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"craftsim.dev/internal/persistence/indexdb"
	persistlog "craftsim.dev/internal/persistence/log"
	"craftsim.dev/internal/persistence/snapshot"
	"craftsim.dev/internal/protocol"
	"craftsim.dev/internal/sim/catalogs"
	"craftsim.dev/internal/sim/tuning"
	"craftsim.dev/internal/sim/world"
	"craftsim.dev/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		worldID    = flag.String("world", "w-0", "world id")
		seed       = flag.Int64("seed", 1, "world seed (used only when starting a fresh world)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite read index (audits + catalogs + save metadata)")

		savePath   = flag.String("save", "", "path to save file to load (optional)")
		loadLatest = flag.Bool("load_latest_save", true, "load the newest save from the data dir if present (when -save is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	worldDir := filepath.Join(*dataDir, *worldID)
	_ = os.MkdirAll(worldDir, 0o755)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}

	// Optional: read-model index (does not affect sim determinism).
	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(worldDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index db: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(cats, tune); err != nil {
			logger.Printf("index db: upsert catalogs: %v", err)
		}
	}

	auditLog := persistlog.NewAuditLogger(worldDir)
	defer auditLog.Close()
	var audit world.AuditSink = auditLog
	if idx != nil {
		audit = multiAuditSink{a: auditLog, b: idx}
	}

	snapCh := make(chan world.SaveV1, 2)

	cfg := world.DefaultConfig(tune)
	cfg.ID = *worldID
	cfg.Seed = *seed

	// Create world (fresh or resumed from a save).
	saveToLoad := strings.TrimSpace(*savePath)
	if saveToLoad == "" && *loadLatest {
		saveToLoad = latestSave(worldDir)
	}

	var w *world.World
	opts := world.Options{Tuning: tune, Catalogs: cats, Audit: audit, SnapshotSink: snapCh}
	if saveToLoad != "" {
		save, err := snapshot.ReadSave(saveToLoad)
		if err != nil {
			logger.Fatalf("read save: %v", err)
		}
		if save.Header.WorldID != "" && save.Header.WorldID != *worldID {
			logger.Fatalf("save world id mismatch: flag=%s save=%s", *worldID, save.Header.WorldID)
		}
		cfg.Seed = save.Seed
		if save.TickRateHz > 0 {
			cfg.TickRateHz = save.TickRateHz
		}
		if save.SnapshotEveryTicks > 0 {
			cfg.SnapshotEveryTicks = save.SnapshotEveryTicks
		}
		if save.Dimension != "" {
			cfg.DefaultSpawn = save.DefaultSpawn
			cfg.Dimension = save.Dimension
		}
		w = world.New(cfg, opts)
		w.ImportSave(save)
		logger.Printf("resumed from save=%s tick=%d", filepath.Base(saveToLoad), w.Tick())
	} else {
		w = world.New(cfg, opts)
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Save writer.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case save := <-snapCh:
				path := snapshot.SavePath(*dataDir, *worldID, save.Header.Tick)
				if err := snapshot.WriteSave(path, save); err != nil {
					logger.Printf("save write: %v", err)
					continue
				}
				if idx != nil {
					idx.RecordSnapshot(path, save)
				}
			}
		}
	}()

	go func() {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		WorldID:         *worldID,
		WorldParams: protocol.WorldParams{
			TickRateHz: cfg.TickRateHz,
			Spawn:      cfg.DefaultSpawn,
			Seed:       cfg.Seed,
		},
		Catalogs: protocol.Digests{
			Smelting:      cats.Smelting.Digest,
			Fuels:         cats.Fuels.Digest,
			Brewing:       cats.Brewing.Digest,
			StackClasses:  cats.StackClasses.Digest,
			ArmorTiers:    cats.ArmorTiers.Digest,
			DeathMessages: cats.DeathMessages.Digest,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		m := w.Metrics()
		tick := w.Tick()
		if m.Tick != 0 {
			tick = m.Tick
		}

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP craftsim_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE craftsim_world_tick gauge\n")
		fmt.Fprintf(rw, "craftsim_world_tick{world=%q} %d\n", *worldID, tick)

		fmt.Fprintf(rw, "# HELP craftsim_world_players Current number of players in the world.\n")
		fmt.Fprintf(rw, "# TYPE craftsim_world_players gauge\n")
		fmt.Fprintf(rw, "craftsim_world_players{world=%q} %d\n", *worldID, m.Players)

		fmt.Fprintf(rw, "# HELP craftsim_world_tile_entities Current tile entity count.\n")
		fmt.Fprintf(rw, "# TYPE craftsim_world_tile_entities gauge\n")
		fmt.Fprintf(rw, "craftsim_world_tile_entities{world=%q} %d\n", *worldID, m.TileEntities)

		fmt.Fprintf(rw, "# HELP craftsim_world_dropped_items Current dropped item entity count.\n")
		fmt.Fprintf(rw, "# TYPE craftsim_world_dropped_items gauge\n")
		fmt.Fprintf(rw, "craftsim_world_dropped_items{world=%q} %d\n", *worldID, m.DroppedItems)

		fmt.Fprintf(rw, "# HELP craftsim_world_queue_depth Channel backlog depth.\n")
		fmt.Fprintf(rw, "# TYPE craftsim_world_queue_depth gauge\n")
		fmt.Fprintf(rw, "craftsim_world_queue_depth{world=%q,queue=%q} %d\n", *worldID, "inbox", m.QueueDepths.Inbox)
		fmt.Fprintf(rw, "craftsim_world_queue_depth{world=%q,queue=%q} %d\n", *worldID, "join", m.QueueDepths.Join)
		fmt.Fprintf(rw, "craftsim_world_queue_depth{world=%q,queue=%q} %d\n", *worldID, "leave", m.QueueDepths.Leave)

		fmt.Fprintf(rw, "# HELP craftsim_world_step_ms Last tick step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE craftsim_world_step_ms gauge\n")
		fmt.Fprintf(rw, "craftsim_world_step_ms{world=%q} %.3f\n", *worldID, m.StepMS)
	})

	enableAdminHTTP := envBool("CS_ENABLE_ADMIN_HTTP", defaultEnableAdminHTTP())
	enablePprofHTTP := envBool("CS_ENABLE_PPROF_HTTP", false)
	if enableAdminHTTP {
		// Local-only admin endpoints (do not affect simulation determinism).
		mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			resp := struct {
				WorldID string             `json:"world_id"`
				Tick    uint64             `json:"tick"`
				Metrics world.WorldMetrics `json:"metrics"`
			}{
				WorldID: *worldID,
				Tick:    w.Tick(),
				Metrics: w.Metrics(),
			}
			_ = json.NewEncoder(rw).Encode(resp)
		})
		mux.HandleFunc("/admin/v1/audits", func(rw http.ResponseWriter, r *http.Request) {
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			if idx == nil {
				_ = json.NewEncoder(rw).Encode(map[string]any{"enabled": false})
				return
			}
			counts, err := idx.AuditCountByType()
			if err != nil {
				rw.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(rw).Encode(map[string]any{"error": err.Error()})
				return
			}
			_ = json.NewEncoder(rw).Encode(map[string]any{"enabled": true, "counts": counts})
		})
	} else {
		logger.Printf("admin endpoints disabled (CS_ENABLE_ADMIN_HTTP=false)")
	}
	if enablePprofHTTP {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	mux.HandleFunc("/v1/ws", ws.NewServer(w, welcome, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func latestSave(worldDir string) string {
	dir := filepath.Join(worldDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTick uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "save-") || !strings.HasSuffix(name, ".zst") {
			continue
		}
		base := strings.TrimSuffix(strings.TrimPrefix(name, "save-"), ".zst")
		tick, err := strconv.ParseUint(base, 10, 64)
		if err != nil {
			continue
		}
		if best == "" || tick > bestTick {
			bestTick = tick
			best = filepath.Join(dir, name)
		}
	}
	return best
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func defaultEnableAdminHTTP() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEPLOY_ENV"))) {
	case "staging", "production":
		return false
	default:
		return true
	}
}

type multiAuditSink struct {
	a world.AuditSink
	b world.AuditSink
}

func (m multiAuditSink) WriteAudit(e world.AuditEntry) error {
	if m.a != nil {
		_ = m.a.WriteAudit(e)
	}
	if m.b != nil {
		_ = m.b.WriteAudit(e)
	}
	return nil
}
