// AngelaMos | 2026
// dto.go

package admin

type SystemStatsResponse struct {
	Database     DatabaseStatus    `json:"database"`
	Redis        RedisStatus       `json:"redis"`
	Runtime      RuntimeStats      `json:"runtime"`
	Entitlements *EntitlementStats `json:"entitlements,omitempty"`
	Calendar     *CalendarStats    `json:"calendar,omitempty"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

// EntitlementStats counts records; Active applies the expiry, not just the flag.
type EntitlementStats struct {
	Active int `json:"active"`
	Total  int `json:"total"`
}

type CalendarStats struct {
	Today    string `json:"today"`
	Zone     string `json:"zone"`
	Degraded bool   `json:"degraded"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
