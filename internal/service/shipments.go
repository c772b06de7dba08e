package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"shipment-service/internal/database"
	"shipment-service/internal/relations"
	"shipment-service/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownAlias    = errors.New("unknown association")
	ErrAddressNotOwned = errors.New("address does not belong to user")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("already exists")
)

type ShipmentService struct {
	db        *gorm.DB
	relations *relations.Registry
}

func NewShipmentService(db *database.Database) *ShipmentService {
	return &ShipmentService{
		db:        db.Conn,
		relations: db.Relations,
	}
}

// preload resolves each alias on source to its struct field and chains a
// GORM Preload for it.
func (s *ShipmentService) preload(tx *gorm.DB, source string, aliases ...string) (*gorm.DB, error) {
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		assoc, ok := s.relations.Lookup(source, alias)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no %q (known: %s)",
				ErrUnknownAlias, source, alias, strings.Join(s.relations.AliasesOf(source), ", "))
		}
		tx = tx.Preload(assoc.Field)
	}
	return tx, nil
}

func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return database.ClassifyError(err)
}

// --- Users ---

func (s *ShipmentService) CreateUser(ctx context.Context, user *models.User) error {
	if strings.TrimSpace(user.Email) == "" || strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: email and name are required", ErrInvalidInput)
	}

	// Unscoped: soft-deleted rows still hold the primary key and email index.
	var count int64
	err := s.db.WithContext(ctx).Unscoped().Model(&models.User{}).
		Where("id = ? OR email = ?", user.ID, user.Email).
		Count(&count).Error
	if err != nil {
		return storeErr(err)
	}
	if count > 0 {
		return fmt.Errorf("%w: user %s or email %s", ErrConflict, user.ID, user.Email)
	}

	if err := s.db.WithContext(ctx).Omit("Shipments", "Settings", "Addresses").Create(user).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// GetUser loads a user together with the requested aliases
// (shipments, settings, addresses).
func (s *ShipmentService) GetUser(ctx context.Context, id uuid.UUID, include ...string) (*models.User, error) {
	tx, err := s.preload(s.db.WithContext(ctx), relations.UserEntity, include...)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}

func (s *ShipmentService) userExists(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return storeErr(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Shipments ---

func (s *ShipmentService) CreateShipment(ctx context.Context, userID uuid.UUID, req *models.ShipmentRequest) (*models.Shipment, error) {
	if strings.TrimSpace(req.TrackingNumber) == "" || strings.TrimSpace(req.Carrier) == "" {
		return nil, fmt.Errorf("%w: tracking_number and carrier are required", ErrInvalidInput)
	}
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}

	trackingNumber := strings.TrimSpace(req.TrackingNumber)
	var count int64
	err := s.db.WithContext(ctx).Unscoped().Model(&models.Shipment{}).
		Where("tracking_number = ?", trackingNumber).
		Count(&count).Error
	if err != nil {
		return nil, storeErr(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: tracking number %s", ErrConflict, trackingNumber)
	}

	shipment := models.Shipment{
		UserID:            userID,
		TrackingNumber:    trackingNumber,
		Carrier:           strings.ToLower(strings.TrimSpace(req.Carrier)),
		Status:            models.ShipmentStatusPending,
		Description:       req.Description,
		EstimatedDelivery: req.EstimatedDelivery,
	}
	if len(req.TrackingEvents) > 0 {
		events, err := json.Marshal(req.TrackingEvents)
		if err != nil {
			return nil, fmt.Errorf("encode tracking events: %w", err)
		}
		shipment.TrackingEvents = events
	}

	if err := s.db.WithContext(ctx).Omit("User").Create(&shipment).Error; err != nil {
		log.Printf("❌ [SHIPMENTS] Create failed for user %s: %v", userID, err)
		return nil, storeErr(err)
	}
	log.Printf("📦 [SHIPMENTS] Created %s (%s) for user %s", shipment.ID, shipment.TrackingNumber, userID)
	return &shipment, nil
}

// GetShipment loads a shipment with its owning user.
func (s *ShipmentService) GetShipment(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	tx, err := s.preload(s.db.WithContext(ctx), relations.ShipmentEntity, "user")
	if err != nil {
		return nil, err
	}

	var shipment models.Shipment
	if err := tx.Where("id = ?", id).First(&shipment).Error; err != nil {
		return nil, storeErr(err)
	}
	return &shipment, nil
}

// ListShipments returns the user's shipments, newest first.
func (s *ShipmentService) ListShipments(ctx context.Context, userID uuid.UUID) ([]models.Shipment, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}
	var shipments []models.Shipment
	err := s.db.WithContext(ctx).
		Where(`"userId" = ?`, userID).
		Order("created_at DESC").
		Find(&shipments).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return shipments, nil
}

// --- Addresses ---

func (s *ShipmentService) CreateAddress(ctx context.Context, userID uuid.UUID, address *models.Address) error {
	if strings.TrimSpace(address.Street) == "" || strings.TrimSpace(address.City) == "" ||
		strings.TrimSpace(address.PostalCode) == "" || strings.TrimSpace(address.Country) == "" {
		return fmt.Errorf("%w: street, city, postal_code and country are required", ErrInvalidInput)
	}
	if err := s.userExists(ctx, userID); err != nil {
		return err
	}
	address.UserID = userID
	address.Country = strings.ToUpper(address.Country)
	if err := s.db.WithContext(ctx).Omit("User").Create(address).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *ShipmentService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}
	var addresses []models.Address
	err := s.db.WithContext(ctx).
		Where(`"userId" = ?`, userID).
		Order("created_at ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return addresses, nil
}

// --- Settings ---

// GetSettings loads the user's settings with the pickup address resolved.
// PickupAddress is nil when no default is set.
func (s *ShipmentService) GetSettings(ctx context.Context, userID uuid.UUID) (*models.Settings, error) {
	tx, err := s.preload(s.db.WithContext(ctx), relations.SettingsEntity, "pickupAddress")
	if err != nil {
		return nil, err
	}

	var settings models.Settings
	if err := tx.Where(`"userId" = ?`, userID).First(&settings).Error; err != nil {
		return nil, storeErr(err)
	}
	return &settings, nil
}

// UpsertSettings creates or replaces the user's preferences. The pickup
// address goes through the same ownership check as SetPickupAddress.
func (s *ShipmentService) UpsertSettings(ctx context.Context, userID uuid.UUID, req *models.SettingsRequest) (*models.Settings, error) {
	if req.Units != "" && req.Units != models.UnitsMetric && req.Units != models.UnitsImperial {
		return nil, fmt.Errorf("%w: units must be metric or imperial", ErrInvalidInput)
	}
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkAddressOwner(tx, userID, req.DefaultPickupAddress); err != nil {
			return err
		}

		var existing models.Settings
		err := tx.Where(`"userId" = ?`, userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			settings := models.Settings{
				UserID:               userID,
				DefaultPickupAddress: req.DefaultPickupAddress,
				NotificationsEnabled: true,
				PreferredCarrier:     req.PreferredCarrier,
				Units:                models.UnitsMetric,
			}
			if req.NotificationsEnabled != nil {
				settings.NotificationsEnabled = *req.NotificationsEnabled
			}
			if req.Units != "" {
				settings.Units = req.Units
			}
			return tx.Omit("User", "PickupAddress").Create(&settings).Error
		case err != nil:
			return err
		}

		updates := map[string]any{
			"DefaultPickupAddress": req.DefaultPickupAddress,
			"PreferredCarrier":     req.PreferredCarrier,
		}
		if req.NotificationsEnabled != nil {
			updates["NotificationsEnabled"] = *req.NotificationsEnabled
		}
		if req.Units != "" {
			updates["Units"] = req.Units
		}
		return tx.Model(&existing).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotOwned) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return s.GetSettings(ctx, userID)
}

// SetPickupAddress points the user's settings at one of the user's own
// addresses. A nil addressID clears it.
func (s *ShipmentService) SetPickupAddress(ctx context.Context, userID uuid.UUID, addressID *uuid.UUID) (*models.Settings, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var settings models.Settings
		if err := tx.Where(`"userId" = ?`, userID).First(&settings).Error; err != nil {
			return err
		}
		if err := checkAddressOwner(tx, userID, addressID); err != nil {
			return err
		}
		return tx.Model(&settings).Update("DefaultPickupAddress", addressID).Error
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotOwned) {
			log.Printf("⚠️ [SETTINGS] Rejected pickup address %v for user %s: not owned", addressID, userID)
			return nil, err
		}
		return nil, storeErr(err)
	}
	return s.GetSettings(ctx, userID)
}

func checkAddressOwner(tx *gorm.DB, userID uuid.UUID, addressID *uuid.UUID) error {
	if addressID == nil {
		return nil
	}
	var address models.Address
	if err := tx.Where("id = ?", *addressID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotOwned
		}
		return err
	}
	if address.UserID != userID {
		return ErrAddressNotOwned
	}
	return nil
}
