package fleet

// MonthlyRevenue is one point of the revenue-by-month series.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// RouteUsage ranks a route by reservation volume.
type RouteUsage struct {
	RouteID   string `json:"routeId"`
	RouteName string `json:"routeName"`
	Count     int    `json:"count"`
}

// StatusCount buckets reservations by status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// AnalyticsData is the aggregate view behind the analytics screens.
type AnalyticsData struct {
	TotalRevenue         float64          `json:"totalRevenue"`
	TotalReservations    int              `json:"totalReservations"`
	TotalRides           int              `json:"totalRides"`
	AverageRating        float64          `json:"averageRating"`
	RevenueByMonth       []MonthlyRevenue `json:"revenueByMonth"`
	TopRoutes            []RouteUsage     `json:"topRoutes"`
	ReservationsByStatus []StatusCount    `json:"reservationsByStatus"`
}
