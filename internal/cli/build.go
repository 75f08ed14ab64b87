package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/flaglog/flaglog/internal/flagging"
	"github.com/flaglog/flaglog/internal/store"
	"github.com/flaglog/flaglog/pkg/config"
	"github.com/flaglog/flaglog/pkg/envelope"
	"github.com/flaglog/flaglog/pkg/model"
)

// components maps config component entries to model components.
func components(cfg *config.Config) []model.Component {
	cs := make([]model.Component, 0, len(cfg.Components))
	for _, c := range cfg.Components {
		kind := model.KindValue
		switch c.Kind {
		case "image":
			kind = model.KindImage
		case "audio":
			kind = model.KindAudio
		}
		cs = append(cs, model.Component{Label: c.Label, Kind: kind})
	}
	return cs
}

// passphrase reads the key file if one is configured.
func passphrase(cfg *config.Config) (string, error) {
	if cfg.KeyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return "", fmt.Errorf("read key file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// buildCallback wires the configured callback variant and calls Setup.
func buildCallback(cfg *config.Config) (flagging.Callback, error) {
	var cb flagging.Callback

	if cfg.Remote.Dataset != "" {
		token := os.Getenv(cfg.Remote.TokenEnv)
		if token == "" {
			return nil, fmt.Errorf("remote dataset configured but %s is not set", cfg.Remote.TokenEnv)
		}
		opts := []flagging.DatasetOption{
			flagging.WithOrganization(cfg.Remote.Organization),
			flagging.WithPrivate(cfg.Remote.Private),
		}
		if cfg.Remote.HubURL != "" {
			opts = append(opts, flagging.WithHub(cfg.Remote.HubURL))
		}
		cb = flagging.NewDatasetSaver(token, cfg.Remote.Dataset, opts...)
	} else {
		key, err := passphrase(cfg)
		if err != nil {
			return nil, err
		}
		opts := []flagging.LoggerOption{flagging.WithLogFilename(cfg.LogFile)}
		if key != "" {
			opts = append(opts, flagging.WithEncryption(key))
		}
		cb = flagging.NewLogger(opts...)
	}

	if err := cb.Setup(components(cfg), cfg.Directory); err != nil {
		return nil, err
	}
	return cb, nil
}

// buildStore opens the configured local log store directly.
func buildStore(cfg *config.Config) (*store.Store, error) {
	key, err := passphrase(cfg)
	if err != nil {
		return nil, err
	}
	opts := []store.Option{store.WithFilename(cfg.LogFile)}
	if key != "" {
		opts = append(opts, store.WithEnvelope(envelope.New(key)))
	}
	return store.New(cfg.Directory, opts...), nil
}
