// Package fleet defines the canonical record shapes the adapters normalize
// backend responses into. The types here carry no behavior beyond small role
// helpers; every record is created fresh per fetch.
package fleet

// UserRole identifies the access level of a platform user.
type UserRole string

const (
	RoleRider        UserRole = "RIDER"
	RoleDriver       UserRole = "DRIVER"
	RoleCompanyAdmin UserRole = "COMPANY_ADMIN"
	RoleOperator     UserRole = "KD_OPERATOR"
)

type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone,omitempty"`
	Role      UserRole `json:"role"`
	CompanyID string   `json:"companyId,omitempty"`
	Company   *Company `json:"company,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// HasRole reports whether the user holds any of the given roles.
func (u *User) HasRole(roles ...UserRole) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is a platform operator.
func (u *User) IsAdmin() bool { return u.HasRole(RoleOperator) }

// IsCompanyAdmin reports whether the user administers at least one company.
func (u *User) IsCompanyAdmin() bool { return u.HasRole(RoleCompanyAdmin, RoleOperator) }

type Company struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Address      string `json:"address,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	IsActive     bool   `json:"isActive"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// RouteType distinguishes fixed commute lines from demand-responsive ones.
type RouteType string

const (
	RouteCommute RouteType = "COMMUTE"
	RouteDRT     RouteType = "DRT"
)

type RouteStatus string

const (
	RouteActive    RouteStatus = "ACTIVE"
	RouteInactive  RouteStatus = "INACTIVE"
	RouteSuspended RouteStatus = "SUSPENDED"
)

type Route struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Code      string      `json:"code"`
	CompanyID string      `json:"companyId"`
	Company   *Company    `json:"company,omitempty"`
	Type      RouteType   `json:"type"`
	Status    RouteStatus `json:"status"`
	Stops     []RouteStop `json:"stops"`
	CreatedAt string      `json:"createdAt,omitempty"`
	UpdatedAt string      `json:"updatedAt,omitempty"`
}

type RouteStop struct {
	ID            string  `json:"id"`
	RouteID       string  `json:"routeId"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Sequence      int     `json:"sequence"`
	ArrivalTime   string  `json:"arrivalTime,omitempty"`
	DepartureTime string  `json:"departureTime,omitempty"`
}

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "AVAILABLE"
	VehicleInService   VehicleStatus = "IN_SERVICE"
	VehicleMaintenance VehicleStatus = "MAINTENANCE"
	VehicleInactive    VehicleStatus = "INACTIVE"
)

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Vehicle struct {
	ID              string        `json:"id"`
	PlateNumber     string        `json:"plateNumber"`
	Model           string        `json:"model"`
	Capacity        int           `json:"capacity"`
	Status          VehicleStatus `json:"status"`
	CurrentLocation *GeoPoint     `json:"currentLocation,omitempty"`
	DriverID        string        `json:"driverId,omitempty"`
	Driver          *Driver       `json:"driver,omitempty"`
}

type DriverStatus string

const (
	DriverAvailable DriverStatus = "AVAILABLE"
	DriverOnDuty    DriverStatus = "ON_DUTY"
	DriverOffDuty   DriverStatus = "OFF_DUTY"
)

type Driver struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	User          *User        `json:"user,omitempty"`
	LicenseNumber string       `json:"licenseNumber"`
	LicenseExpiry string       `json:"licenseExpiry"`
	Status        DriverStatus `json:"status"`
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationNoShow    ReservationStatus = "NO_SHOW"
)

type Reservation struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	User            *User             `json:"user,omitempty"`
	RouteID         string            `json:"routeId"`
	Route           *Route            `json:"route,omitempty"`
	TripID          string            `json:"tripId,omitempty"`
	BoardingStopID  string            `json:"boardingStopId"`
	BoardingStop    *RouteStop        `json:"boardingStop,omitempty"`
	AlightingStopID string            `json:"alightingStopId"`
	AlightingStop   *RouteStop        `json:"alightingStop,omitempty"`
	Status          ReservationStatus `json:"status"`
	ReservationDate string            `json:"reservationDate"`
	CreatedAt       string            `json:"createdAt,omitempty"`
}

type Invoice struct {
	ID                 string   `json:"id"`
	CompanyID          string   `json:"companyId"`
	Company            *Company `json:"company,omitempty"`
	InvoiceNumber      string   `json:"invoiceNumber"`
	BillingPeriodStart string   `json:"billingPeriodStart,omitempty"`
	BillingPeriodEnd   string   `json:"billingPeriodEnd,omitempty"`
	Amount             float64  `json:"amount"`
	Status             string   `json:"status"`
	DueDate            string   `json:"dueDate,omitempty"`
	PaidAt             string   `json:"paidAt,omitempty"`
	CreatedAt          string   `json:"createdAt,omitempty"`
}

type Payment struct {
	ID            string   `json:"id"`
	InvoiceID     string   `json:"invoiceId"`
	Invoice       *Invoice `json:"invoice,omitempty"`
	Amount        float64  `json:"amount"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
	Status        string   `json:"status"`
	TransactionID string   `json:"transactionId,omitempty"`
	PaidAt        string   `json:"paidAt,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
}

type DashboardStats struct {
	TotalVehicles     int     `json:"totalVehicles"`
	ActiveVehicles    int     `json:"activeVehicles"`
	TotalRoutes       int     `json:"totalRoutes"`
	ActiveRoutes      int     `json:"activeRoutes"`
	TotalRiders       int     `json:"totalRiders"`
	TodayReservations int     `json:"todayReservations"`
	AverageOccupancy  float64 `json:"averageOccupancy"`
}
