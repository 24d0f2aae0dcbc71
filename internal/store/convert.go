package store

import (
	"fmt"

	"github.com/xkilldash9x/homegrid/api/schemas"
)

// rowFromItem flattens a workspace item into its favorites row.
func rowFromItem(item schemas.Item) (schemas.FavoriteRow, error) {
	info := item.Info()
	row := schemas.FavoriteRow{
		ID:        info.ID,
		Container: info.Container,
		Screen:    info.Screen,
		CellX:     info.CellX,
		CellY:     info.CellY,
		SpanX:     info.SpanX,
		SpanY:     info.SpanY,
		ItemType:  int(info.ItemType),
		OrderID:   info.OrderID,
	}

	switch v := item.(type) {
	case *schemas.ShortcutInfo:
		intent, err := schemas.EncodeLaunchIntent(v.Intent)
		if err != nil {
			return row, err
		}
		row.Title = v.Title
		row.Intent = intent
		row.IconType = int(v.IconType)
		row.IconPackage = v.IconPackage
		row.IconResource = v.IconResource
		if v.IconType == schemas.IconFromBitmap || v.CustomIcon {
			row.Icon = v.IconBlob
		}

	case *schemas.UserFolderInfo:
		row.Title = v.Title

	case *schemas.LiveFolderInfo:
		intent, err := schemas.EncodeLaunchIntent(v.BaseIntent)
		if err != nil {
			return row, err
		}
		row.Title = v.Title
		row.Intent = intent
		row.URI = v.URI
		row.DisplayMode = v.DisplayMode
		row.IconType = int(v.IconType)
		row.IconPackage = v.IconPackage
		row.IconResource = v.IconResource

	case *schemas.WidgetInfo:
		row.WidgetID = v.WidgetID

	case *schemas.CustomWidgetInfo:
		row.WidgetID = int(v.WidgetType)

	default:
		return row, fmt.Errorf("unknown item type %T", item)
	}

	return row, nil
}
