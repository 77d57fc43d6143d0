// Package iocache has the SQL-backed forecast cache and run history stores.
package iocache

import (
	"sync"

	"github.com/huangsam/logscore/internal/contract"
)

// StoreManagerImpl holds the stores for one process. A nil store is disabled.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	forecast     contract.CacheStore
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetForecastCache returns the forecast parse cache.
func (mgr *StoreManagerImpl) GetForecastCache() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.forecast
}

// GetRunStore returns the run history store.
func (mgr *StoreManagerImpl) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
