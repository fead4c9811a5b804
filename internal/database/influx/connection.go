package influx

import (
	"context"
	"fmt"
	"mqtt-onoff/internal/config/components"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
)

type InfluxDB struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	config   *components.InfluxConfigImpl
}

func NewConnection(ctx context.Context, cfg *components.InfluxConfigImpl, logger zerolog.Logger) (*InfluxDB, error) {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(20).
			SetFlushInterval(uint((5 * time.Second).Milliseconds())),
	)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to InfluxDB: %w", err)
	}
	if health.Status != domain.HealthCheckStatusPass {
		client.Close()
		return nil, fmt.Errorf("InfluxDB health check failed: %s", health.Status)
	}

	writeAPI := client.WriteAPI(cfg.Organization, cfg.Bucket)

	// The non-blocking write API reports failures asynchronously.
	go func() {
		for err := range writeAPI.Errors() {
			logger.Warn().Err(err).Msg("InfluxDB write failed")
		}
	}()

	return &InfluxDB{
		client:   client,
		writeAPI: writeAPI,
		config:   cfg,
	}, nil
}

func (i *InfluxDB) GetWriteAPI() api.WriteAPI {
	return i.writeAPI
}

// Flush blocks until all buffered points are written.
func (i *InfluxDB) Flush() {
	i.writeAPI.Flush()
}

func (i *InfluxDB) Close() {
	i.writeAPI.Flush()
	i.client.Close()
}
