package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeProxySettings(t *testing.T) {
	t.Run("one credential per protocol, last wins", func(t *testing.T) {
		proxies := []rowMap{
			{"id": int64(1), "type": "vmess", "settings": `{"id":"uuid-old"}`},
			{"id": int64(2), "type": "vmess", "settings": `{"id":"uuid-new"}`},
		}

		merged, skipped := mergeProxySettings(proxies)
		require.Empty(t, skipped)
		require.Len(t, merged, 1)
		assert.Equal(t, map[string]any{"id": "uuid-new"}, merged["vmess"])
	})

	t.Run("all four protocol families", func(t *testing.T) {
		proxies := []rowMap{
			{"id": int64(1), "type": "vmess", "settings": `{"id":"u1"}`},
			{"id": int64(2), "type": "vless", "settings": `{"id":"u2","flow":"xtls-rprx-vision"}`},
			{"id": int64(3), "type": "trojan", "settings": `{"password":"p1"}`},
			{"id": int64(4), "type": "shadowsocks", "settings": `{"password":"p2","method":"aes-128-gcm"}`},
		}

		merged, skipped := mergeProxySettings(proxies)
		require.Empty(t, skipped)
		assert.Equal(t, map[string]any{"id": "u1"}, merged["vmess"])
		assert.Equal(t, map[string]any{"id": "u2", "flow": "xtls-rprx-vision"}, merged["vless"])
		assert.Equal(t, map[string]any{"password": "p1"}, merged["trojan"])
		assert.Equal(t, map[string]any{"password": "p2", "method": "aes-128-gcm"}, merged["shadowsocks"])
	})

	t.Run("vless flow defaults to empty string", func(t *testing.T) {
		merged, _ := mergeProxySettings([]rowMap{
			{"id": int64(1), "type": "vless", "settings": `{"id":"u"}`},
		})
		assert.Equal(t, map[string]any{"id": "u", "flow": ""}, merged["vless"])
	})

	t.Run("unknown protocol types are ignored", func(t *testing.T) {
		merged, skipped := mergeProxySettings([]rowMap{
			{"id": int64(1), "type": "mtproto", "settings": `{"secret":"s"}`},
		})
		assert.Empty(t, merged)
		assert.Empty(t, skipped)
	})

	t.Run("corrupt settings are skipped, not fatal", func(t *testing.T) {
		proxies := []rowMap{
			{"id": int64(7), "type": "trojan", "settings": `{"password":`},
			{"id": int64(8), "type": "vmess", "settings": `{"id":"ok"}`},
		}

		merged, skipped := mergeProxySettings(proxies)
		assert.Equal(t, []any{int64(7)}, skipped)
		require.Len(t, merged, 1)
		assert.Equal(t, map[string]any{"id": "ok"}, merged["vmess"])
	})

	t.Run("type matching is case insensitive", func(t *testing.T) {
		merged, _ := mergeProxySettings([]rowMap{
			{"id": int64(1), "type": "VMess", "settings": `{"id":"u"}`},
		})
		assert.Contains(t, merged, "vmess")
	})

	t.Run("no credentials yields empty object", func(t *testing.T) {
		merged, skipped := mergeProxySettings(nil)
		assert.Empty(t, merged)
		assert.Empty(t, skipped)
	})
}
