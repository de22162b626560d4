package service

import (
	"context"
	"net"
	"testing"
	"time"

	"go_lms_certificate/internal/config"
	"go_lms_certificate/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	testCases := []struct {
		mailerType string
		want       interface{}
	}{
		{mailerType: "log", want: &LogMailer{}},
		{mailerType: "smtp", want: &SmtpMailer{}},
		{mailerType: "carrier-pigeon", want: &LogMailer{}},
		{mailerType: "", want: &LogMailer{}},
	}
	for _, tc := range testCases {
		t.Run(tc.mailerType, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Mailer.Type = tc.mailerType
			assert.IsType(t, tc.want, NewMailer(cfg))
		})
	}
}

func sesConfig(authType, keyID, secret string) *config.Config {
	cfg := &config.Config{}
	cfg.Mailer.Type = "ses"
	cfg.SES = config.SESConfig{
		Region:          "ap-northeast-1",
		AuthType:        authType,
		AccessKeyID:     keyID,
		SecretAccessKey: secret,
		From:            "certificates@example.com",
	}
	return cfg
}

func TestNewSESMailer(t *testing.T) {
	t.Run("static credentials", func(t *testing.T) {
		m := NewMailer(sesConfig("static_credentials", "AKIDEXAMPLE", "secret-example"))

		sesMailer, ok := m.(*SESMailer)
		require.True(t, ok, "got %T", m)
		assert.Equal(t, "certificates@example.com", sesMailer.cfg.From)

		opts := sesMailer.client.Options()
		assert.Equal(t, "ap-northeast-1", opts.Region)
		creds, err := opts.Credentials.Retrieve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
		assert.Equal(t, "secret-example", creds.SecretAccessKey)
	})

	t.Run("static credentials without keys", func(t *testing.T) {
		assert.Panics(t, func() {
			NewSESMailer(sesConfig("static_credentials", "", ""))
		})
	})
}

func TestLogMailer_Send(t *testing.T) {
	m := &LogMailer{}
	assert.NoError(t, m.Send(context.Background(), "ada@example.com", "subject", "body"))
}

func TestSmtpMailer_SendUnreachable(t *testing.T) {
	// grab a free port and release it so nothing is listening there
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	m := &SmtpMailer{cfg: &config.SMTPConfig{Host: "127.0.0.1", Port: port, From: "certificates@example.com"}}
	assert.Error(t, m.Send(context.Background(), "ada@example.com", "subject", "body"))
}

func TestCertificateIssuedMail(t *testing.T) {
	cert := &model.Certificate{
		ID:               uuid.New(),
		CertificateID:    "CERT-M7XKQ2A1-1A2B3C4D",
		StudentName:      "Ada Lovelace",
		CourseTitle:      "Distributed Systems",
		IssuedAt:         time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Grade:            80,
		VerificationCode: "0123456789ABCDEF0123456789ABCDEF",
	}

	subject, body := certificateIssuedMail("Test Academy", cert)

	assert.Equal(t, "Your certificate for Distributed Systems", subject)
	assert.Contains(t, body, "Hello Ada Lovelace")
	assert.Contains(t, body, "grade of 80")
	assert.Contains(t, body, cert.CertificateID)
	assert.Contains(t, body, cert.VerificationCode)
	assert.Contains(t, body, "2026-03-02")
	assert.Contains(t, body, "Test Academy")
}
