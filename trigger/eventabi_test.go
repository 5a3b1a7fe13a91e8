package trigger

import (
	"testing"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHumanReadableEvent(t *testing.T) {
	event, err := ParseEventInterface("event Transfer(address indexed from, address indexed to, uint256 value)")
	require.NoError(t, err)

	assert.Equal(t, "Transfer", event.Name)
	assert.Equal(t, utils.TransferTopic, event.ID)
	require.Len(t, event.Inputs, 3)
	assert.True(t, event.Inputs[0].Indexed)
	assert.Equal(t, "to", event.Inputs[1].Name)
	assert.False(t, event.Inputs[2].Indexed)
}

func TestParseHumanReadablePicksFirstEvent(t *testing.T) {
	definition := `
		function balanceOf(address) view returns (uint)
		event Approval(address indexed owner, address indexed spender, uint value)
		event Transfer(address indexed from, address indexed to, uint value)
	`
	event, err := ParseEventInterface(definition)
	require.NoError(t, err)
	assert.Equal(t, "Approval", event.Name)
	assert.Equal(t, crypto.Keccak256Hash([]byte("Approval(address,address,uint256)")), event.ID)
}

func TestParseUnnamedAndAnonymous(t *testing.T) {
	event, err := ParseEventInterface("event Ping(uint256 indexed, bytes32) anonymous")
	require.NoError(t, err)
	assert.True(t, event.Anonymous)
	assert.Equal(t, "arg0", event.Inputs[0].Name)
	assert.Equal(t, "arg1", event.Inputs[1].Name)
}

func TestParseJSONEvent(t *testing.T) {
	definition := `[
		{"type":"function","name":"deposit","inputs":[],"outputs":[]},
		{"type":"event","name":"Deposit","anonymous":false,"inputs":[
			{"name":"user","type":"address","indexed":true},
			{"name":"amount","type":"uint256","indexed":false}
		]}
	]`
	event, err := ParseEventInterface(definition)
	require.NoError(t, err)
	assert.Equal(t, "Deposit", event.Name)
	assert.Equal(t, crypto.Keccak256Hash([]byte("Deposit(address,uint256)")), event.ID)

	single, err := ParseEventInterface(`{"type":"event","name":"Deposit","inputs":[{"name":"user","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]}`)
	require.NoError(t, err)
	assert.Equal(t, event.ID, single.ID)
}

func TestParseEventInterfaceErrors(t *testing.T) {
	inputs := []string{
		"",
		"function transfer(address,uint256)",
		"event (address)",
		"event Bad(address indexed from",
		"event Bad(notatype x)",
		"event Bad((address,uint256) pair)",
		"event Bad(address from to)",
		"event Bad(address) payable",
		`[{"type":"function","name":"f","inputs":[]}]`,
		`[{"type":`,
	}

	for _, in := range inputs {
		_, err := ParseEventInterface(in)
		assert.True(t, errors.Is(err, zkerrors.ErrInvalidTrigger), "input %q: %v", in, err)
	}
}
