package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xkilldash9x/homegrid/api/schemas"
)

func TestResolveApplicationIcon_PrecedenceChain(t *testing.T) {
	comp := schemas.ComponentName{Package: "com.fruit.mail", Class: ".Mail"}

	t.Run("live icon from the activity source wins", func(t *testing.T) {
		env := newTestEnv(t)
		env.icons.byComp[comp] = []byte{0x01}
		c := newCycle(env.session, false, nil)

		shortcut := &schemas.ShortcutInfo{}
		c.resolveApplicationIcon(shortcut, comp, schemas.FavoriteRow{Icon: []byte{0x02}})

		assert.Equal(t, []byte{0x01}, shortcut.IconBlob)
		assert.False(t, shortcut.CustomIcon)
		assert.False(t, shortcut.FallbackIcon)
	})

	t.Run("stored row blob is the second choice", func(t *testing.T) {
		env := newTestEnv(t)
		c := newCycle(env.session, false, nil)

		shortcut := &schemas.ShortcutInfo{}
		c.resolveApplicationIcon(shortcut, comp, schemas.FavoriteRow{Icon: []byte{0x02}})

		assert.Equal(t, []byte{0x02}, shortcut.IconBlob)
		assert.False(t, shortcut.FallbackIcon)
	})

	t.Run("fallback icon covers everything else", func(t *testing.T) {
		env := newTestEnv(t)
		c := newCycle(env.session, false, nil)

		shortcut := &schemas.ShortcutInfo{}
		c.resolveApplicationIcon(shortcut, comp, schemas.FavoriteRow{})

		assert.Equal(t, []byte{0xF0}, shortcut.IconBlob)
		assert.True(t, shortcut.FallbackIcon)
	})
}

func TestResolveShortcutIcon_Provenance(t *testing.T) {
	t.Run("resource icons re-resolve against the package", func(t *testing.T) {
		env := newTestEnv(t)
		env.icons.resources["com.fruit.theme/ic_star"] = []byte{0x0A}
		c := newCycle(env.session, false, nil)

		shortcut := &schemas.ShortcutInfo{}
		shortcut.IconType = schemas.IconFromResource
		c.resolveShortcutIcon(shortcut, schemas.FavoriteRow{
			IconPackage: "com.fruit.theme", IconResource: "ic_star",
		})

		assert.Equal(t, []byte{0x0A}, shortcut.IconBlob)
		assert.False(t, shortcut.CustomIcon)
	})

	t.Run("bitmap icons load the stored blob verbatim", func(t *testing.T) {
		env := newTestEnv(t)
		c := newCycle(env.session, false, nil)

		shortcut := &schemas.ShortcutInfo{}
		shortcut.IconType = schemas.IconFromBitmap
		c.resolveShortcutIcon(shortcut, schemas.FavoriteRow{Icon: []byte{0x0B}})

		assert.Equal(t, []byte{0x0B}, shortcut.IconBlob)
		assert.True(t, shortcut.CustomIcon)
	})

	t.Run("missing resource falls back", func(t *testing.T) {
		env := newTestEnv(t)
		c := newCycle(env.session, false, nil)

		shortcut := &schemas.ShortcutInfo{}
		shortcut.IconType = schemas.IconFromResource
		c.resolveShortcutIcon(shortcut, schemas.FavoriteRow{
			IconPackage: "com.fruit.theme", IconResource: "ic_gone",
		})

		assert.Equal(t, []byte{0xF0}, shortcut.IconBlob)
		assert.True(t, shortcut.FallbackIcon)
	})
}
