package gormrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"cropline/internal/adapter/repo/gorm/model"
	"cropline/internal/app/ports"

	"gorm.io/gorm"
)

type OperatorCredentialRepo struct {
	db *gorm.DB
}

func NewOperatorCredentialRepo(db *gorm.DB) OperatorCredentialRepo {
	return OperatorCredentialRepo{db: db}
}

func (r OperatorCredentialRepo) Create(ctx context.Context, credential ports.OperatorCredentialRecord) error {
	row := model.OperatorCredential{
		OperatorID: credential.OperatorID,
		Name:       credential.Name,
		KeySalt:    credential.KeySalt,
		KeyHash:    credential.KeyHash,
		Status:     credential.Status,
		CreatedAt:  credential.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r OperatorCredentialRepo) GetByOperatorID(ctx context.Context, operatorID string) (ports.OperatorCredentialRecord, error) {
	var row model.OperatorCredential
	if err := getDBFromCtx(ctx, r.db).Where("operator_id = ?", operatorID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.OperatorCredentialRecord{}, ports.ErrNotFound
		}
		return ports.OperatorCredentialRecord{}, err
	}
	return ports.OperatorCredentialRecord{
		OperatorID: row.OperatorID,
		Name:       row.Name,
		KeySalt:    row.KeySalt,
		KeyHash:    row.KeyHash,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
