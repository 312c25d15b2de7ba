package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/paynotify/internal/tabular"
)

func TestSessions(t *testing.T) {
	sessions := NewSessions()

	first := sessions.Get(100)
	require.Nil(t, first.Payments)
	require.Nil(t, first.Registry)

	first.UploaderID = 500
	first.Payments = &tabular.Table{Columns: []string{"Назначение"}}

	// то же состояние при повторном обращении
	again := sessions.Get(100)
	require.Same(t, first, again)
	require.NotNil(t, again.Payments)
	require.Equal(t, int64(500), again.UploaderID)

	// сессии чатов независимы
	other := sessions.Get(200)
	require.Nil(t, other.Payments)

	sessions.Reset(100)
	reset := sessions.Get(100)
	require.Nil(t, reset.Payments)
	require.Zero(t, reset.UploaderID)
}
