package entity

type CommonResp struct {
	Result interface{} `json:"result"`
}

// 可见性标签
const (
	TabAll     = "all"
	TabForSale = "forsale"
	TabBurned  = "burned"
)

// 可见性重算参数
// 不触发任何网络请求，仅在已缓存的token集合上重算visible标记
type VisibilityParam struct {
	ContractID uint64            `json:"contract_id"`
	SearchText string            `json:"search_text"`
	Tab        string            `json:"tab"`
	Filters    map[string]string `json:"filters"`
}
