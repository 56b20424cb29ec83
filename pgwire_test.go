package pgwire_test

import (
	"context"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire"
	"github.com/pgwire/pgwire/pgmock"
	"github.com/pgwire/pgwire/pgvalue"
)

func scriptedConnect(t *testing.T, server *pgmock.Server) (*pgwire.Conn, *pgmock.Transport) {
	t.Helper()
	tr := pgmock.NewTransport(server.Bytes())
	cfg := &pgwire.Config{Host: "db", Port: 5432, User: "alice", Database: "app", Logger: slogt.New(t)}
	conn, err := pgwire.ConnectTransport(context.Background(), tr, cfg)
	require.NoError(t, err)
	return conn, tr
}

// startupServer returns a scripted server through the point a real
// connection is handed back to the caller: AuthenticationOk, ReadyForQuery,
// then the two SET statements setSessionDefaults issues as simple queries.
// Tests append their own statement/cursor traffic after this.
func startupServer() *pgmock.Server {
	return pgmock.NewServer().
		AuthenticationOK().
		ReadyForQuery().
		CommandComplete("SET").
		ReadyForQuery().
		CommandComplete("SET").
		ReadyForQuery()
}

func TestConnectTrustAuth(t *testing.T) {
	server := pgmock.NewServer().
		AuthenticationOK().
		ParameterStatus("server_version", "16.1").
		BackendKeyData(123, 456).
		ReadyForQuery().
		CommandComplete("SET").
		ReadyForQuery().
		CommandComplete("SET").
		ReadyForQuery()

	conn, _ := scriptedConnect(t, server)
	defer conn.Close()

	version, ok := conn.ParameterStatus("server_version")
	require.True(t, ok)
	require.Equal(t, "16.1", version)

	pid, secret := conn.BackendKeyData()
	require.Equal(t, int32(123), pid)
	require.Equal(t, int32(456), secret)
}

func TestConnectErrorResponseDuringStartup(t *testing.T) {
	server := pgmock.NewServer().
		ErrorResponse("S", "FATAL", "C", "28P01", "M", "password authentication failed")

	tr := pgmock.NewTransport(server.Bytes())
	cfg := &pgwire.Config{Host: "db", Port: 5432, User: "alice", Logger: slogt.New(t)}
	_, err := pgwire.ConnectTransport(context.Background(), tr, cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "password authentication failed")
}

func TestPrepareAndExecuteStreamsRows(t *testing.T) {
	server := startupServer().
		// Prepare
		ParseComplete().
		ParameterDescription().
		RowDescription(pgmock.Column{Name: "id", OID: 23}, pgmock.Column{Name: "name", OID: 25}).
		ReadyForQuery().
		// Execute
		BindComplete().
		DataRow([]byte("1"), []byte("alice")).
		DataRow([]byte("2"), []byte("bob")).
		CommandComplete("SELECT 2").
		ReadyForQuery()

	conn, _ := scriptedConnect(t, server)
	defer conn.Close()

	stmt, err := conn.Prepare(context.Background(), "select id, name from users")
	require.NoError(t, err)
	require.Len(t, stmt.Columns(), 2)
	require.Equal(t, "id", stmt.Columns()[0].Name)

	cursor, err := stmt.Execute(context.Background(), pgwire.ExecuteOpts{})
	require.NoError(t, err)

	var names []string
	for {
		row, ok, err := cursor.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		v, err := row.ValueByName("name")
		require.NoError(t, err)
		names = append(names, v.Text)
	}

	require.Equal(t, []string{"alice", "bob"}, names)
}

func TestRowConversionAccessors(t *testing.T) {
	server := startupServer().
		ParseComplete().
		ParameterDescription().
		RowDescription(pgmock.Column{Name: "id", OID: 23}, pgmock.Column{Name: "nickname", OID: 25}).
		ReadyForQuery().
		BindComplete().
		DataRow([]byte("7"), nil).
		CommandComplete("SELECT 1").
		ReadyForQuery()

	conn, _ := scriptedConnect(t, server)
	defer conn.Close()

	stmt, err := conn.Prepare(context.Background(), "select id, nickname from users where id = $1")
	require.NoError(t, err)

	cursor, err := stmt.Execute(context.Background(), pgwire.ExecuteOpts{})
	require.NoError(t, err)

	row, ok, err := cursor.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	id, err := row.Int64(0)
	require.NoError(t, err)
	require.Equal(t, int64(7), id)

	_, err = row.Text(1)
	require.Error(t, err)

	nickname, err := row.OptionalText(1)
	require.NoError(t, err)
	require.Nil(t, nickname)

	_, ok, err = cursor.Next(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.NotNil(t, cursor.RowCount())
	require.Equal(t, int64(1), *cursor.RowCount())
}

func TestExecuteRejectsTooManyParameters(t *testing.T) {
	server := startupServer().
		ParseComplete().
		ParameterDescription().
		NoData().
		ReadyForQuery()

	conn, _ := scriptedConnect(t, server)
	defer conn.Close()

	stmt, err := conn.Prepare(context.Background(), "select 1")
	require.NoError(t, err)

	params := make([]pgvalue.Value, 65536)
	for i := range params {
		params[i] = pgvalue.Value{Kind: pgvalue.KindInt, Int: int64(i)}
	}

	_, err = stmt.Execute(context.Background(), pgwire.ExecuteOpts{}, params...)
	require.Error(t, err)
}

func TestOperationsFailAfterClose(t *testing.T) {
	server := startupServer()

	conn, _ := scriptedConnect(t, server)
	require.NoError(t, conn.Close())

	_, err := conn.Prepare(context.Background(), "select 1")
	require.Error(t, err)

	_, err = conn.SimpleQuery(context.Background(), "select 1")
	require.Error(t, err)
}

func TestSimpleQueryNoRows(t *testing.T) {
	server := startupServer().
		CommandComplete("CREATE TABLE").
		ReadyForQuery()

	conn, _ := scriptedConnect(t, server)
	defer conn.Close()

	cursor, err := conn.SimpleQuery(context.Background(), "create table t (id int)")
	require.NoError(t, err)

	_, ok, err := cursor.Next(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}
