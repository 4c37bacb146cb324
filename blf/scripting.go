package blf

// Lua decision scripts. A script defines a global function decide(info)
// which gets a table describing one container and returns "y", "n", "a",
// "i" (or true / false).

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
	lua "github.com/yuin/gopher-lua"
)

const (
	ScriptDecideFunction = "decide"
)

// Runs a lua script's decide() for every file. Holds a lua state, so it's
// not safe for concurrent use; Close it when done.
type ScriptDecider struct {
	L      *lua.LState
	decide lua.LValue
}

// Load and run the script, making sure it defined decide()
func NewScriptDecider(script string) (*ScriptDecider, error) {
	L := lua.NewState()
	setBasicLuaFunctions(L)
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, err
	}
	fn := L.GetGlobal(ScriptDecideFunction)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("Script must define a function '%s'", ScriptDecideFunction)
	}
	return &ScriptDecider{L: L, decide: fn}, nil
}

func LoadScriptDecider(path string) (*ScriptDecider, error) {
	script, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewScriptDecider(string(script))
}

func (d *ScriptDecider) Close() {
	d.L.Close()
}

// The table handed to decide()
func extractionTable(L *lua.LState, file string, ext *Extraction) *lua.LTable {
	info := L.NewTable()
	info.RawSetString("file", lua.LString(file))
	info.RawSetString("content_name", lua.LString(ext.Metadata.ContentName))
	info.RawSetString("creator_name", lua.LString(ext.Metadata.CreatorName))
	info.RawSetString("creator_id", lua.LString(ext.Metadata.CreatorID))
	info.RawSetString("modifier_name", lua.LString(ext.Metadata.ModifierName))
	info.RawSetString("modifier_id", lua.LString(ext.Metadata.ModifierID))
	info.RawSetString("description", lua.LString(ext.Metadata.Description))
	info.RawSetString("header_type", lua.LString(ext.Metadata.HeaderType))
	info.RawSetString("kind", lua.LString(ext.Kind.String()))
	info.RawSetString("has_payload", lua.LBool(ext.Result != nil))
	if ext.Result != nil {
		info.RawSetString("payload_length", lua.LNumber(ext.Result.Length()))
	}
	return info
}

func (d *ScriptDecider) Decide(file string, ext *Extraction) (Response, error) {
	err := d.L.CallByParam(lua.P{
		Fn:      d.decide,
		NRet:    1,
		Protect: true,
	}, extractionTable(d.L, file, ext))
	if err != nil {
		return ResponseNo, err
	}
	ret := d.L.Get(-1)
	d.L.Pop(1)
	switch v := ret.(type) {
	case lua.LString:
		return ParseResponse(string(v)), nil
	case lua.LBool:
		if v {
			return ResponseYes, nil
		}
		return ResponseNo, nil
	}
	if ret == lua.LNil {
		return ResponseNo, nil
	}
	return ResponseNo, fmt.Errorf("%s() returned a %s, expected string or boolean", ScriptDecideFunction, ret.Type())
}

// -----------------------------
//          HELPERS
// -----------------------------

// Print from a script through the normal log
func luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	log.Printf("[script] %s\n", strings.Join(parts, "\t"))
	return 0
}

// hex("5f626c66") -> "_blf". Lets a script spell out raw tags and ids.
func luaHex(L *lua.LState) int {
	raw, err := hex.DecodeString(L.CheckString(1))
	if err != nil {
		L.RaiseError("hex(): %s", err)
		return 0
	}
	L.Push(lua.LString(raw))
	return 1
}

// json(text) -> table
func luaJson(L *lua.LState) int {
	var value interface{}
	if err := json.Unmarshal([]byte(L.CheckString(1)), &value); err != nil {
		L.RaiseError("json(): %s", err)
		return 0
	}
	L.Push(goToLua(L, value))
	return 1
}

// toml(text) -> table. Same format as the config file, so a script can
// share lists with it.
func luaToml(L *lua.LState) int {
	tree, err := toml.Load(L.CheckString(1))
	if err != nil {
		L.RaiseError("toml(): %s", err)
		return 0
	}
	L.Push(goToLua(L, tree.ToMap()))
	return 1
}

// file(path) -> contents, for creator lists and the like
func luaFile(L *lua.LState) int {
	path := L.CheckString(1)
	raw, err := os.ReadFile(path)
	if err != nil {
		L.RaiseError("file(%s): %s", path, err)
		return 0
	}
	L.Push(lua.LString(raw))
	return 1
}

// Convert decoded json/toml values into lua values. Integers only come from
// toml. Anything unrecognized becomes nil.
func goToLua(L *lua.LState, value interface{}) lua.LValue {
	switch v := value.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case float64:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case json.Number:
		return lua.LString(v)
	case []interface{}:
		list := L.CreateTable(len(v), 0)
		for _, item := range v {
			list.Append(goToLua(L, item))
		}
		return list
	case map[string]interface{}:
		table := L.CreateTable(0, len(v))
		for key, item := range v {
			table.RawSetString(key, goToLua(L, item))
		}
		return table
	}
	return lua.LNil
}

func setBasicLuaFunctions(L *lua.LState) {
	L.SetGlobal("log", L.NewFunction(luaLog))
	L.SetGlobal("hex", L.NewFunction(luaHex))
	L.SetGlobal("json", L.NewFunction(luaJson))
	L.SetGlobal("toml", L.NewFunction(luaToml))
	L.SetGlobal("file", L.NewFunction(luaFile))
}
