package domain

// Spot is a TOUR_SPOT row. SPOT_ID is kept as an opaque string even when
// the backing column is a wide integer.
type Spot struct {
	ID        string  `json:"SPOT_ID"`
	Name      string  `json:"NAME"`
	Address   string  `json:"ADDRESS"`
	Category  string  `json:"CATEGORY,omitempty"`
	Latitude  float64 `json:"LATITUDE,omitempty"`
	Longitude float64 `json:"LONGITUDE,omitempty"`
}

type SpotDetail struct {
	Spot
	AvgRating   string   `json:"avgRating"`
	ReviewCount int      `json:"reviewCount"`
	Photos      []string `json:"photos"`
	TopTags     []string `json:"topTags"`
}

type Photo struct {
	ID  string `json:"photoId"`
	URL string `json:"url"`
}

type WishItem struct {
	WishID    string `json:"wishId"`
	PlaceID   string `json:"placeId"`
	PlaceName string `json:"placeName"`
	Address   string `json:"address"`
	Thumbnail string `json:"thumbnail"`
}
