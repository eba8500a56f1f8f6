package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/stretchr/testify/require"
)

const testPassphrase = "drop-test"

func newTestKeystore(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.NewAccount(testPassphrase)
	require.NoError(t, err)
	return dir, account.Address.Hex()
}

func TestKeystore_ConnectDisconnect(t *testing.T) {
	dir, address := newTestKeystore(t)
	w, err := NewKeystore(Config{KeystoreDir: dir, Passphrase: testPassphrase, ChainID: big.NewInt(5), LightKDF: true})
	require.NoError(t, err)
	ctx := context.Background()

	_, ok := w.Address()
	require.False(t, ok, "fresh session must be signed out")

	require.NoError(t, w.Connect(ctx))
	got, ok := w.Address()
	require.True(t, ok)
	require.Equal(t, address, got.Hex())

	opts, err := w.TransactOpts(ctx)
	require.NoError(t, err)
	require.Equal(t, got, opts.From)

	require.NoError(t, w.Disconnect(ctx))
	_, ok = w.Address()
	require.False(t, ok)

	_, err = w.TransactOpts(ctx)
	require.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, w.Disconnect(ctx))
}

func TestKeystore_WrongPassphrase(t *testing.T) {
	dir, _ := newTestKeystore(t)
	w, err := NewKeystore(Config{KeystoreDir: dir, Passphrase: "wrong", ChainID: big.NewInt(5), LightKDF: true})
	require.NoError(t, err)

	require.Error(t, w.Connect(context.Background()))
	_, ok := w.Address()
	require.False(t, ok)
}

func TestKeystore_SelectAccount(t *testing.T) {
	dir, address := newTestKeystore(t)

	w, err := NewKeystore(Config{KeystoreDir: dir, Account: address, ChainID: big.NewInt(5), LightKDF: true})
	require.NoError(t, err)
	require.Equal(t, address, w.account.Address.Hex())

	_, err = NewKeystore(Config{KeystoreDir: dir, Account: "0x0000000000000000000000000000000000000001", ChainID: big.NewInt(5)})
	require.ErrorIs(t, err, ErrNoAccount)
}

func TestKeystore_EmptyDirectory(t *testing.T) {
	_, err := NewKeystore(Config{KeystoreDir: t.TempDir(), ChainID: big.NewInt(5)})
	require.ErrorIs(t, err, ErrNoAccount)
}
