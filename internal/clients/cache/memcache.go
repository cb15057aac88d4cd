package cache

import (
	"strconv"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/reports"
)

var defaultBase = 10

type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(clientID int64, period string) string {
	return strconv.FormatInt(clientID, defaultBase) + ":" + period
}

func (mc *MemcacheClient) CacheReport(clientID int64, period string, report string) error {
	logger.Info("cache report", zap.Int64("clientID", clientID), zap.String("period", period))
	return mc.client.Set(&memcache.Item{
		Key:   formatKey(clientID, period),
		Value: []byte(report)},
	)
}

// GetReport returns the cached report and whether one was present.
func (mc *MemcacheClient) GetReport(clientID int64, period string) (string, bool, error) {
	item, err := mc.client.Get(formatKey(clientID, period))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(item.Value), true, nil
}

// InvalidateReports drops every cached period for the client. Called on
// each expense mutation so stale summaries never outlive the data.
func (mc *MemcacheClient) InvalidateReports(clientID int64) error {
	logger.Info("invalidate report cache", zap.Int64("clientID", clientID))

	for _, period := range reports.Periods() {
		err := mc.client.Delete(formatKey(clientID, period))
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}
