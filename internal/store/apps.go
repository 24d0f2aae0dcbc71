package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/xkilldash9x/homegrid/api/schemas"
	"go.uber.org/zap"
)

// ListApps returns the app catalog table ordered by container and position.
func (s *Store) ListApps(ctx context.Context) ([]schemas.AppRow, error) {
	query := `
        SELECT id, title, intent, container, position, item_type, sys_app, package_name
        FROM apps
        ORDER BY container ASC, position ASC;
    `
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query apps: %w", err)
	}
	defer rows.Close()

	var out []schemas.AppRow
	for rows.Next() {
		var r schemas.AppRow
		if err := rows.Scan(&r.ID, &r.Title, &r.Intent, &r.Container, &r.Position, &r.ItemType, &r.SysApp, &r.PackageName); err != nil {
			return nil, fmt.Errorf("failed to scan apps row: %w", err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return out, nil
}

// ReconcileApps brings the app catalog table in line with the installed
// activity list: rows whose app is gone are deleted, newly installed apps are
// appended, and positions are compacted back to a contiguous run. The
// launcher's own package and theme packages never enter the table.
func (s *Store) ReconcileApps(ctx context.Context, installed []schemas.AppInfo, selfPackage, themePrefix string) (added, removed int, err error) {
	existing, err := s.ListApps(ctx)
	if err != nil {
		return 0, 0, err
	}

	wanted := make(map[string]schemas.AppInfo, len(installed))
	for _, app := range installed {
		if skipPackage(app.Component.Package, selfPackage, themePrefix) {
			continue
		}
		wanted[componentKey(app.Component)] = app
	}

	present := make(map[string]bool, len(existing))
	var stale []int64
	var survivors []schemas.AppRow
	for _, row := range existing {
		key, ok := rowComponentKey(row)
		if ok {
			if _, want := wanted[key]; want {
				present[key] = true
				survivors = append(survivors, row)
				continue
			}
		}
		stale = append(stale, row.ID)
	}

	var toAdd []schemas.AppInfo
	for key, app := range wanted {
		if !present[key] {
			toAdd = append(toAdd, app)
		}
	}
	sort.Slice(toAdd, func(i, j int) bool {
		return componentKey(toAdd[i].Component) < componentKey(toAdd[j].Component)
	})

	if len(stale) == 0 && len(toAdd) == 0 {
		return 0, 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	batch := &pgx.Batch{}
	for _, id := range stale {
		batch.Queue(`DELETE FROM apps WHERE id = $1;`, id)
	}

	// Surviving rows keep their relative order but close up any gaps the
	// deletions left.
	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].Container != survivors[j].Container {
			return survivors[i].Container < survivors[j].Container
		}
		return survivors[i].Position < survivors[j].Position
	})
	position := 0
	updates := 0
	for _, row := range survivors {
		if row.Position != position {
			batch.Queue(`UPDATE apps SET position = $1 WHERE id = $2;`, position, row.ID)
			updates++
		}
		position++
	}

	sqlInsert := `
        INSERT INTO apps (title, intent, container, position, item_type, sys_app, package_name)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	for _, app := range toAdd {
		intent, encodeErr := schemas.EncodeLaunchIntent(app.Intent)
		if encodeErr != nil {
			return 0, 0, encodeErr
		}
		batch.Queue(sqlInsert,
			app.Title, intent, int64(0), position,
			int(schemas.ItemTypeApplication), app.SysApp, app.Component.Package)
		position++
	}

	br := tx.SendBatch(ctx, batch)
	if br == nil {
		return 0, 0, fmt.Errorf("failed to send batch: batch results is nil")
	}
	total := len(stale) + updates + len(toAdd)
	for i := 0; i < total; i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return 0, 0, fmt.Errorf("failed to execute apps batch (index %d): %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, 0, fmt.Errorf("failed to close apps batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("App catalog reconciled",
		zap.Int("added", len(toAdd)),
		zap.Int("removed", len(stale)),
		zap.Int("repositioned", updates))
	return len(toAdd), len(stale), nil
}

func skipPackage(pkg, selfPackage, themePrefix string) bool {
	if selfPackage != "" && pkg == selfPackage {
		return true
	}
	if themePrefix != "" && strings.HasPrefix(pkg, themePrefix) {
		return true
	}
	return false
}

func componentKey(c schemas.ComponentName) string {
	return c.Package + "/" + c.Class
}

// rowComponentKey recovers the component identity from a row's intent column.
func rowComponentKey(row schemas.AppRow) (string, bool) {
	intent, err := schemas.DecodeLaunchIntent(row.Intent)
	if err != nil || intent == nil || intent.Component == nil {
		return "", false
	}
	return componentKey(*intent.Component), true
}
