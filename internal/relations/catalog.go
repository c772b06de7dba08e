// internal/relations/catalog.go
package relations

import "shipment-service/pkg/models"

const (
	UserEntity     = "User"
	ShipmentEntity = "Shipment"
	SettingsEntity = "Settings"
	AddressEntity  = "Address"
)

// Associations of the shipment-tracking data model. Address has no alias
// back to the Settings rows that use it as a pickup address.
var catalog = []Association{
	{Source: UserEntity, Target: ShipmentEntity, Kind: HasMany, ForeignKey: "userId", Alias: "shipments", Field: "Shipments"},
	{Source: ShipmentEntity, Target: UserEntity, Kind: BelongsTo, ForeignKey: "userId", Alias: "user", Field: "User"},

	{Source: UserEntity, Target: SettingsEntity, Kind: HasOne, ForeignKey: "userId", Alias: "settings", Field: "Settings"},
	{Source: SettingsEntity, Target: UserEntity, Kind: BelongsTo, ForeignKey: "userId", Alias: "user", Field: "User"},

	{Source: UserEntity, Target: AddressEntity, Kind: HasMany, ForeignKey: "userId", Alias: "addresses", Field: "Addresses"},
	{Source: AddressEntity, Target: UserEntity, Kind: BelongsTo, ForeignKey: "userId", Alias: "user", Field: "User"},

	{Source: SettingsEntity, Target: AddressEntity, Kind: BelongsTo, ForeignKey: "defaultPickupAddress", Alias: "pickupAddress", Field: "PickupAddress"},
}

// Default returns the registry for User, Address, Settings and Shipment.
// It panics if the static catalog is inconsistent.
func Default() *Registry {
	r, err := New([]Entity{
		{Name: UserEntity, Model: &models.User{}},
		{Name: AddressEntity, Model: &models.Address{}},
		{Name: SettingsEntity, Model: &models.Settings{}},
		{Name: ShipmentEntity, Model: &models.Shipment{}},
	}, catalog)
	if err != nil {
		panic(err)
	}
	return r
}
