package pgwire

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/binary"

	"github.com/pgwire/pgwire/internal/types"
	"github.com/pgwire/pgwire/pgerror"
)

// negotiateTLS sends an SSLRequest and, on the server's 'S' response,
// upgrades the underlying transport. An 'N' response always aborts: this
// module never falls back to a plaintext connection once TLS has been
// configured, per the explicit direction in the Open Question decisions.
func (c *Conn) negotiateTLS(tlsCfg *tls.Config) error {
	var buf bytes.Buffer
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], 8)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(types.VersionSSLRequest))
	buf.Write(hdr[:])

	if _, err := c.transport.Write(buf.Bytes()); err != nil {
		return pgerror.Wrap(pgerror.KindSocket, err)
	}

	resp := make([]byte, 1)
	if _, err := readFull(c.transport, resp); err != nil {
		return pgerror.Wrap(pgerror.KindSocket, err)
	}

	switch resp[0] {
	case 'S':
		if err := c.transport.UpgradeTLS(tlsCfg); err != nil {
			return pgerror.Wrap(pgerror.KindSSL, err)
		}
		return nil
	case 'N':
		return pgerror.New(pgerror.KindSSL, "server refused SSLRequest and this connection requires TLS")
	default:
		return pgerror.Newf(pgerror.KindProtocol, "unexpected SSLRequest response byte %q", resp[0])
	}
}

func readFull(r interface {
	Read([]byte) (int, error)
}, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// startup sends the StartupMessage, then drives the authentication exchange
// and run-time parameter negotiation until ReadyForQuery arrives, and finally
// pins the session defaults this module's value codecs assume.
func (c *Conn) startup(ctx context.Context) error {
	if err := c.writeStartupMessage(); err != nil {
		return err
	}
	if err := c.authenticate(ctx); err != nil {
		return err
	}
	if err := c.consumeUntilReady("startup"); err != nil {
		return err
	}
	return c.setSessionDefaults(ctx)
}

// setSessionDefaults issues the two explicit SET statements this module's
// date/time parsing assumes are in effect: ISO/MDY output and a known time
// zone for timestamptz's displayed offset. These are sent as simple queries
// after startup rather than smuggled into the StartupMessage's parameter
// list, since DateStyle/TimeZone are ordinary GUCs, not one of the handful of
// parameters (user, database, application_name, ...) the StartupMessage
// itself carries.
func (c *Conn) setSessionDefaults(ctx context.Context) error {
	for _, stmt := range []string{
		`SET DateStyle = 'ISO, MDY'`,
		`SET TimeZone = 'UTC'`,
	} {
		cur, err := c.SimpleQuery(ctx, stmt)
		if err != nil {
			return err
		}
		if _, _, err := cur.Next(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Conn) writeStartupMessage() error {
	var body bytes.Buffer

	var version [4]byte
	binary.BigEndian.PutUint32(version[:], uint32(types.Version30))
	body.Write(version[:])

	params := map[string]string{
		"user":     c.cfg.User,
		"database": c.cfg.Database,
	}
	if params["database"] == "" {
		params["database"] = c.cfg.User
	}
	if c.cfg.ApplicationName != "" {
		params["application_name"] = c.cfg.ApplicationName
	}
	// client_encoding is pinned to UTF8 since pgvalue's text codecs assume
	// UTF-8 column text throughout; DateStyle/TimeZone are not startup
	// parameters and are set afterward by setSessionDefaults instead.
	params["client_encoding"] = "UTF8"

	for k, v := range params {
		body.WriteString(k)
		body.WriteByte(0)
		body.WriteString(v)
		body.WriteByte(0)
	}
	body.WriteByte(0)

	var frame bytes.Buffer
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(4+body.Len()))
	frame.Write(length[:])
	frame.Write(body.Bytes())

	_, err := c.transport.Write(frame.Bytes())
	if err != nil {
		return pgerror.Wrap(pgerror.KindSocket, err)
	}
	return nil
}

// consumeUntilReady reads and dispatches messages until ReadyForQuery,
// handling the run-time parameter / key-data / notice chatter that can
// appear between a command's real response and the sync barrier. phase
// names the caller for diagnostics only.
func (c *Conn) consumeUntilReady(phase string) error {
	for {
		tag, msg, err := c.reader.ReadTypedMsg()
		if err != nil {
			return pgerror.Wrap(pgerror.KindSocket, err)
		}

		switch tag {
		case types.ServerParameterStatus:
			name, value, err := readCString2(msg)
			if err != nil {
				return err
			}
			c.setParameterStatus(name, value)

		case types.ServerBackendKeyData:
			if len(msg) < 8 {
				return pgerror.Newf(pgerror.KindProtocol, "short BackendKeyData message")
			}
			pid := int32(binary.BigEndian.Uint32(msg[0:4]))
			secret := int32(binary.BigEndian.Uint32(msg[4:8]))
			c.setBackendKeyData(pid, secret)

		case types.ServerNoticeResponse:
			c.logNotice(msg)

		case types.ServerErrorResponse:
			return pgerror.FromErrorResponse(parseErrorFields(msg))

		case types.ServerReady:
			if len(msg) < 1 {
				return pgerror.Newf(pgerror.KindProtocol, "short ReadyForQuery message")
			}
			c.setServerStatus(types.ServerStatus(msg[0]))
			return nil

		default:
			return errUnexpectedMessage(phase, tag)
		}
	}
}

// readCString2 reads two consecutive NUL-terminated strings off msg, the
// shape of a ParameterStatus message body.
func readCString2(msg []byte) (a, b string, err error) {
	i := bytes.IndexByte(msg, 0)
	if i < 0 {
		return "", "", pgerror.New(pgerror.KindProtocol, "malformed ParameterStatus: missing first NUL terminator")
	}
	a = string(msg[:i])
	rest := msg[i+1:]
	j := bytes.IndexByte(rest, 0)
	if j < 0 {
		return "", "", pgerror.New(pgerror.KindProtocol, "malformed ParameterStatus: missing second NUL terminator")
	}
	return a, string(rest[:j]), nil
}

func (c *Conn) logNotice(msg []byte) {
	fields := parseErrorFields(msg)
	c.logger.Warn("notice from server", "message", fields['M'], "severity", fields['S'], "code", fields['C'])
}

// parseErrorFields decodes the field:value pairs of an ErrorResponse or
// NoticeResponse body into a map keyed by field-type byte, per
// https://www.postgresql.org/docs/current/protocol-error-fields.html
func parseErrorFields(msg []byte) map[byte]string {
	fields := make(map[byte]string)
	for len(msg) > 0 {
		fieldType := msg[0]
		if fieldType == 0 {
			break
		}
		rest := msg[1:]
		i := bytes.IndexByte(rest, 0)
		if i < 0 {
			break
		}
		fields[fieldType] = string(rest[:i])
		msg = rest[i+1:]
	}
	return fields
}
