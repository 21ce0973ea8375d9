package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateItem(ctx context.Context, in Item) error
	GetItem(ctx context.Context, id string) (Item, error)
	UpdateItem(ctx context.Context, in Item) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, filter ItemListFilter) ([]Item, error)

	CreateTimeBlock(ctx context.Context, in TimeBlock) error
	GetTimeBlock(ctx context.Context, id string) (TimeBlock, error)
	UpdateTimeBlock(ctx context.Context, in TimeBlock) error
	DeleteTimeBlock(ctx context.Context, id string) error
	ListTimeBlocks(ctx context.Context, filter TimeBlockListFilter) ([]TimeBlock, error)
	CountTimeBlocks(ctx context.Context) (int, error)
}
