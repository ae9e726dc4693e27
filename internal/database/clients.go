package database

import "gorm.io/gorm"

// ActiveClients returns all active API client credentials.
func ActiveClients(db *gorm.DB) ([]APIClient, error) {
	var clients []APIClient
	if err := db.Where("is_active = ?", true).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateClient provisions a service credential. The unique constraint on
// service_name rejects double provisioning.
func CreateClient(db *gorm.DB, serviceName, apiKey string) (*APIClient, error) {
	client := &APIClient{
		ServiceName: serviceName,
		APIKey:      apiKey,
		IsActive:    true,
	}
	if err := db.Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// DeactivateClient revokes a credential without deleting it.
func DeactivateClient(db *gorm.DB, serviceName string) error {
	return db.Model(&APIClient{}).
		Where("service_name = ?", serviceName).
		Update("is_active", false).Error
}
