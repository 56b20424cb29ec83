package scram_test

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	"github.com/pgwire/pgwire/scram"
)

func TestSelectMechanismPrefersPlusWhenAvailable(t *testing.T) {
	c, err := scram.NewClient([]string{scram.MechanismSHA256, scram.MechanismSHA256Plus}, "alice", "s3cr3t", scram.ChannelBindingPrefer, [32]byte{1}, true)
	require.NoError(t, err)
	require.Equal(t, scram.MechanismSHA256Plus, c.Mechanism())
	require.True(t, c.ChannelBound())
}

func TestSelectMechanismDisablePolicyIgnoresPlus(t *testing.T) {
	c, err := scram.NewClient([]string{scram.MechanismSHA256, scram.MechanismSHA256Plus}, "alice", "s3cr3t", scram.ChannelBindingDisable, [32]byte{1}, true)
	require.NoError(t, err)
	require.Equal(t, scram.MechanismSHA256, c.Mechanism())
	require.False(t, c.ChannelBound())
}

func TestRequirePolicyFailsWithoutFingerprint(t *testing.T) {
	_, err := scram.NewClient([]string{scram.MechanismSHA256}, "alice", "s3cr3t", scram.ChannelBindingRequire, [32]byte{}, false)
	require.Error(t, err)
}

func TestClientFirstMessageShape(t *testing.T) {
	c, err := scram.NewClient([]string{scram.MechanismSHA256}, "alice", "s3cr3t", scram.ChannelBindingDisable, [32]byte{}, false)
	require.NoError(t, err)

	msg := string(c.ClientFirstMessage())
	require.True(t, strings.HasPrefix(msg, "n,,n=,r="))
}

// fakeServer implements just enough of the SCRAM-SHA-256 server side to
// exercise scram.Client's full exchange end to end.
type fakeServer struct {
	password   string
	salt       []byte
	iterations int
}

func newFakeServer(password string) *fakeServer {
	salt := make([]byte, 16)
	_, _ = rand.Read(salt)
	return &fakeServer{password: password, salt: salt, iterations: 4096}
}

func (s *fakeServer) saltedPassword() []byte {
	return pbkdf2.Key([]byte(s.password), s.salt, s.iterations, sha256.Size, sha256.New)
}

func TestFullExchangeWithoutChannelBinding(t *testing.T) {
	password := "s3cr3t"
	server := newFakeServer(password)

	client, err := scram.NewClient([]string{scram.MechanismSHA256}, "alice", password, scram.ChannelBindingDisable, [32]byte{}, false)
	require.NoError(t, err)

	clientFirst := string(client.ClientFirstMessage())
	gs2End := strings.Index(clientFirst, "n=")
	clientFirstBare := clientFirst[gs2End:]

	serverNonce := extractAttr(t, clientFirstBare, "r") + "ServerNonceSuffix"
	serverFirst := fmt.Sprintf("r=%s,s=%s,i=%d", serverNonce, base64.StdEncoding.EncodeToString(server.salt), server.iterations)

	clientFinal, err := client.HandleServerFirstMessage([]byte(serverFirst))
	require.NoError(t, err)

	clientFinalWithoutProof := strings.Split(string(clientFinal), ",p=")[0]
	authMessage := strings.Join([]string{clientFirstBare, serverFirst, clientFinalWithoutProof}, ",")

	saltedPassword := server.saltedPassword()
	serverKey := hmacSHA256(saltedPassword, []byte("Server Key"))
	serverSignature := hmacSHA256(serverKey, []byte(authMessage))

	serverFinal := fmt.Sprintf("v=%s", base64.StdEncoding.EncodeToString(serverSignature))
	require.NoError(t, client.HandleServerFinalMessage([]byte(serverFinal)))
}

func TestHandleServerFirstMessageRejectsLowIterationCount(t *testing.T) {
	client, err := scram.NewClient([]string{scram.MechanismSHA256}, "alice", "s3cr3t", scram.ChannelBindingDisable, [32]byte{}, false)
	require.NoError(t, err)

	clientFirst := string(client.ClientFirstMessage())
	clientFirstBare := clientFirst[strings.Index(clientFirst, "n="):]
	serverNonce := extractAttr(t, clientFirstBare, "r") + "ServerNonceSuffix"
	salt := make([]byte, 16)
	serverFirst := fmt.Sprintf("r=%s,s=%s,i=%d", serverNonce, base64.StdEncoding.EncodeToString(salt), 4095)

	_, err = client.HandleServerFirstMessage([]byte(serverFirst))
	require.Error(t, err)
}

func TestFullExchangeRejectsBadServerSignature(t *testing.T) {
	password := "s3cr3t"
	server := newFakeServer(password)

	client, err := scram.NewClient([]string{scram.MechanismSHA256}, "alice", password, scram.ChannelBindingDisable, [32]byte{}, false)
	require.NoError(t, err)

	clientFirst := string(client.ClientFirstMessage())
	clientFirstBare := clientFirst[strings.Index(clientFirst, "n="):]
	serverNonce := extractAttr(t, clientFirstBare, "r") + "ServerNonceSuffix"
	serverFirst := fmt.Sprintf("r=%s,s=%s,i=%d", serverNonce, base64.StdEncoding.EncodeToString(server.salt), server.iterations)

	_, err = client.HandleServerFirstMessage([]byte(serverFirst))
	require.NoError(t, err)

	forged := "v=" + base64.StdEncoding.EncodeToString([]byte("not-the-right-signature!"))
	require.Error(t, client.HandleServerFinalMessage([]byte(forged)))
}

func extractAttr(t *testing.T, s, key string) string {
	t.Helper()
	for _, part := range strings.Split(s, ",") {
		if strings.HasPrefix(part, key+"=") {
			return strings.TrimPrefix(part, key+"=")
		}
	}
	t.Fatalf("attribute %q not found in %q", key, s)
	return ""
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
