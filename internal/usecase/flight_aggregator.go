package usecase

import (
	"fmt"

	"flightdesk-service/internal/domain/entity"
)

// DefaultPageSize is the number of flights shown per results page
const DefaultPageSize = 5

// Page is one page of the flattened result set
type Page struct {
	Items      []entity.FlightSegment `json:"items"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"totalPages"`
	Price      entity.PriceBand       `json:"price"`
}

// Aggregate groups the segments of a search response by marketing carrier.
// Carriers keep their first-seen order and segments keep the order they were
// received in. A response without segments yields ErrNoFlightsFound.
func Aggregate(resp *entity.FlightResponse) (*entity.FlightResultSet, error) {
	if resp == nil || resp.Data == nil {
		return nil, entity.ErrNoFlightsFound
	}

	set := &entity.FlightResultSet{
		Carriers:  []string{},
		ByCarrier: make(map[string][]entity.FlightSegment),
		Price:     entity.ParsePriceBand(resp.Data.PriceMin, resp.Data.PriceMax),
	}

	for _, group := range resp.Data.Seg1 {
		for _, segment := range group.Segments {
			carrier := segment.CompanyID.MarketingCarrier
			if _, ok := set.ByCarrier[carrier]; !ok {
				set.Carriers = append(set.Carriers, carrier)
			}
			set.ByCarrier[carrier] = append(set.ByCarrier[carrier], segment)
		}
	}

	if len(set.Carriers) == 0 {
		return nil, entity.ErrNoFlightsFound
	}
	return set, nil
}

// TotalPages returns ceil(count / pageSize)
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate returns page number page of the flattened result set. Pages start
// at 1; a page past the last one is refused with ErrPageOutOfRange.
func Paginate(set *entity.FlightResultSet, pageSize, page int) (Page, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	flat := set.Flatten()
	total := TotalPages(len(flat), pageSize)
	if page < 1 || page > total {
		return Page{}, fmt.Errorf("%w: page %d of %d", entity.ErrPageOutOfRange, page, total)
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(flat) {
		end = len(flat)
	}

	return Page{
		Items:      flat[start:end],
		Page:       page,
		TotalPages: total,
		Price:      set.Price,
	}, nil
}
