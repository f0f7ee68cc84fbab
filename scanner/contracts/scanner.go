package contracts

import (
	"context"

	"github.com/morler/repolens/scanner/models"
)

type IScanner interface {
	Scan(ctx context.Context, rootPath string) (*models.ProjectSnapshot, error)
	RenderTree(rootPath string) (string, error)
}
