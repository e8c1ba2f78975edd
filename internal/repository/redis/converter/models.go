package converter

// ProductRedisModel — товар в снимке каталога. Цена хранится в сантимах.
type ProductRedisModel struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// CatalogRedisModel — снимок каталога в порядке сортировки по цене.
type CatalogRedisModel struct {
	Products []ProductRedisModel `json:"products"`
}
