package util

import (
	"fmt"

	log "github.com/sayddii/TwitchNotify/logger"
	"github.com/sayddii/TwitchNotify/notifier"
	luaLibs "github.com/vadv/gopher-lua-libs"
	lua "github.com/yuin/gopher-lua"
	luar "layeh.com/gopher-luar"
)

// LuaResponse is filled by the script through the ReceiveResponse and
// SendResponse globals.
type LuaResponse struct {
	Filled  bool
	Error   bool
	Message string
	Data    map[string]interface{}
}

// Plugin runs the OnReceive/OnSend hooks of a user script. It is not safe for
// concurrent use; the tracker calls it from its own loop only.
type Plugin struct {
	l *lua.LState
}

// LoadPlugin executes the script at path with gopher-lua-libs preloaded.
func LoadPlugin(path string) (*Plugin, error) {
	l := lua.NewState()
	luaLibs.Preload(l)
	if err := l.DoFile(path); err != nil {
		l.Close()
		return nil, fmt.Errorf("unable to load lua script %s: %w", path, err)
	}
	return &Plugin{l: l}, nil
}

func loadPluginString(src string) (*Plugin, error) {
	l := lua.NewState()
	luaLibs.Preload(l)
	if err := l.DoString(src); err != nil {
		l.Close()
		return nil, fmt.Errorf("unable to load lua script: %w", err)
	}
	return &Plugin{l: l}, nil
}

func (p *Plugin) Close() {
	p.l.Close()
}

// OnReceive is called with the channel ID before a notification is attempted.
func (p *Plugin) OnReceive(channelID string) *LuaResponse {
	return p.call("OnReceive", "ReceiveResponse", luar.New(p.l, channelID))
}

// OnSend is called with the event after it was delivered.
func (p *Plugin) OnSend(e *notifier.Event) *LuaResponse {
	return p.call("OnSend", "SendResponse", luar.New(p.l, e))
}

func (p *Plugin) call(fn, global string, arg lua.LValue) *LuaResponse {
	hook := p.l.GetGlobal(fn)
	if hook.Type() != lua.LTFunction {
		log.Debugf("Lua script has no %q function, skipping", fn)
		return nil
	}

	result := &LuaResponse{}
	p.l.SetGlobal(global, luar.New(p.l, result))

	if err := p.l.CallByParam(lua.P{
		Fn:      hook,
		NRet:    0,
		Protect: true,
	}, arg); err != nil {
		log.Errorf("Wasn't able to execute the %q function of the Lua script: %s", fn, err)
		return nil
	}

	if result.Filled && result.Error {
		log.Errorf("The %q function of the Lua script reported an error: %s", fn, result.Message)
		return nil
	}

	return result
}
