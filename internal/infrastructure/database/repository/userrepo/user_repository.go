package userrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"llm-gateway/internal/domain/user"
	"llm-gateway/internal/infrastructure/database"
	"llm-gateway/internal/infrastructure/database/dbschema"
	"llm-gateway/internal/utils/platformerrors"
)

// UserGormRepository persists users through the lazily connected user store.
type UserGormRepository struct {
	connector *database.Connector
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(connector *database.Connector) user.Repository {
	return &UserGormRepository{connector: connector}
}

func (repo *UserGormRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	db, cfg, err := repo.connector.Get(ctx)
	if err != nil {
		return nil, err
	}

	var entity dbschema.User
	err = db.WithContext(ctx).
		Table(cfg.TableName).
		Where("partition_key = ? AND username = ?", cfg.PartitionKey, username).
		First(&entity).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by username",
			err,
			"b3c1f8a2-61d4-4e7b-9c2f-8a5d0e4f1b23",
		)
	}
	return entity.EtoD(), nil
}

func (repo *UserGormRepository) Create(ctx context.Context, usr *user.User) (*user.User, error) {
	db, cfg, err := repo.connector.Get(ctx)
	if err != nil {
		return nil, err
	}

	entity := dbschema.NewSchemaUser(usr, cfg.PartitionKey)
	err = db.WithContext(ctx).Table(cfg.TableName).Create(entity).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict,
			fmt.Sprintf("user %q already exists", usr.Username),
			err,
			"9a4e2b17-5c83-4d06-b1fa-e7c6d0f82a54",
		)
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create user",
			err,
			"4f7a1c58-0d92-4b3e-a6c1-2e8b5d9f0a37",
		)
	}
	return entity.EtoD(), nil
}

func (repo *UserGormRepository) Update(ctx context.Context, usr *user.User) (*user.User, error) {
	db, cfg, err := repo.connector.Get(ctx)
	if err != nil {
		return nil, err
	}

	result := db.WithContext(ctx).
		Table(cfg.TableName).
		Where("partition_key = ? AND username = ?", cfg.PartitionKey, usr.Username).
		Updates(map[string]any{
			"password": usr.Password,
			"is_admin": usr.IsAdmin,
		})
	if result.Error != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update user",
			result.Error,
			"c2d9e0b4-7a16-4f85-9b3d-1a6c8e5f2d70",
		)
	}
	if result.RowsAffected == 0 {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("user %q not found", usr.Username),
			nil,
			"5e8b2f91-3c47-4a60-8d2e-9f1b4c7a6e35",
		)
	}
	return repo.FindByUsername(ctx, usr.Username)
}

func (repo *UserGormRepository) Delete(ctx context.Context, username string) error {
	db, cfg, err := repo.connector.Get(ctx)
	if err != nil {
		return err
	}

	result := db.WithContext(ctx).
		Table(cfg.TableName).
		Where("partition_key = ? AND username = ?", cfg.PartitionKey, username).
		Delete(&dbschema.User{})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete user",
			result.Error,
			"0a3d5f82-9e61-4b74-a5c0-7d2f8b1e4c96",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("user %q not found", username),
			nil,
			"6b1e9d40-2f75-4c38-b8a2-0e5c7a4d3f61",
		)
	}
	return nil
}
