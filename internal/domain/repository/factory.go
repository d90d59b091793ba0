package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Tenants() TenantRepository
	Orders() OrderRepository
	Couriers() CourierRepository
	Offers() OfferRepository
	Clients() ClientRepository
	Staff() StaffRepository
	Audits() AuditRepository
}
