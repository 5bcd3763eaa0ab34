package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tracklet/tracklet/pkg/cache"
	"github.com/tracklet/tracklet/pkg/config"
	"github.com/tracklet/tracklet/pkg/events"
	"github.com/tracklet/tracklet/pkg/gateway"
	"github.com/tracklet/tracklet/pkg/log"
	"github.com/tracklet/tracklet/pkg/session"
	"github.com/tracklet/tracklet/pkg/storage"
	synchro "github.com/tracklet/tracklet/pkg/sync"
	"github.com/tracklet/tracklet/pkg/timer"
)

// engine bundles the wired components for one CLI invocation
type engine struct {
	cfg     *config.File
	cfgPath string
	broker  *events.Broker
	cache   *cache.Cache
	gateway *gateway.Client
	sync    *synchro.Synchronizer
	timer   *timer.Timer
	session *session.Manager
	store   storage.Store
}

// newEngine constructs the components in initialization order:
// cache -> gateway -> synchronizer -> timer -> session
func newEngine(profileName string) (*engine, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log.Init(log.Config{Level: log.Level(cfg.Settings.LogLevel)})

	profile, err := cfg.Profile(profileName)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewBoltStore(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	broker := events.NewBroker()
	broker.Start()

	c := cache.New(broker)

	gw, err := gateway.NewClient(*profile)
	if err != nil {
		store.Close()
		return nil, err
	}

	sy := synchro.New(gw, c)
	t := timer.New(broker)
	sess := session.New(gw, sy, c, t, store, broker, profile.Name)

	if err := sess.Restore(); err != nil {
		log.Errorf("failed to restore previous session", err)
	}

	return &engine{
		cfg:     cfg,
		cfgPath: path,
		broker:  broker,
		cache:   c,
		gateway: gw,
		sync:    sy,
		timer:   t,
		session: sess,
		store:   store,
	}, nil
}

// close tears the engine down
func (e *engine) close() {
	e.broker.Stop()
	if err := e.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}
}

// tickInterval returns the configured display tick period
func (e *engine) tickInterval() time.Duration {
	secs := e.cfg.Settings.TickSeconds
	if secs <= 0 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
