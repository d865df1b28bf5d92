package clients

import "time"

const (
	ARK_API_URL = "https://ark.cn-beijing.volces.com/api/v3/responses"
	ARK_MODEL   = "doubao-seed-1-8-251228"
	USER_AGENT  = "oplens-client/1.0 (+https://github.com/oplens/oplens)"
)

// Vision calls on large screenshots are slow; the upstream gets one long
// attempt and no retries.
const defaultRequestTimeout = 180 * time.Second
