package usecase

import "errors"

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrCoinNotFound             = errors.New("coin not found")
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrFavoriteNotFound         = errors.New("favorite not found")
	ErrEmailTaken               = errors.New("email already registered")
	ErrSymbolTaken              = errors.New("coin symbol already exists")
	ErrFavoriteExists           = errors.New("coin already favorited")
	ErrActiveNotificationExists = errors.New("active notification already exists for this coin")
	ErrInvalidPushToken         = errors.New("invalid push token")
)
