package client

import (
	"context"
	"strconv"

	"github.com/TELY01-DEV/evep-admin/config"
	"github.com/TELY01-DEV/evep-admin/geo"
)

// Catalog serves geo.Selector and geo.MatchAddress from the master-data
// service.
type Catalog struct {
	c *Client
}

var _ geo.Catalog = (*Catalog)(nil)

func NewCatalog(c *Client) *Catalog { return &Catalog{c: c} }

func (k *Catalog) Provinces(ctx context.Context) ([]geo.Province, error) {
	return FetchAll[geo.Province](ctx, k.c, config.ServiceMasterData, "/master-data/provinces", "provinces", nil)
}

func (k *Catalog) Districts(ctx context.Context, provinceID uint) ([]geo.District, error) {
	return FetchAll[geo.District](ctx, k.c, config.ServiceMasterData, "/master-data/districts", "districts",
		map[string]string{"province_id": strconv.FormatUint(uint64(provinceID), 10)})
}

func (k *Catalog) Subdistricts(ctx context.Context, districtID uint) ([]geo.Subdistrict, error) {
	return FetchAll[geo.Subdistrict](ctx, k.c, config.ServiceMasterData, "/master-data/subdistricts", "subdistricts",
		map[string]string{"district_id": strconv.FormatUint(uint64(districtID), 10)})
}
