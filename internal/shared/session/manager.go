package session

import (
	"sync"

	"Dawnforge/internal/shared/transport/ws"
)

// Manager 维护 存档 <-> ws 连接 的订阅关系，一个存档可被多条连接订阅，一条连接只订阅一个存档。
type Manager interface {
	Subscribe(save string, conn ws.WSConn)
	Unsubscribe(conn ws.WSConn)
	Conns(save string) []ws.WSConn
	SaveOf(conn ws.WSConn) (string, bool)
	Broadcast(save, name string, data any) int
}

type SessMgr struct {
	sync.RWMutex
	save2conns map[string]map[ws.WSConn]struct{}
	conn2save  map[ws.WSConn]string
	watched    map[ws.WSConn]struct{}
}

func NewSessMgr() *SessMgr {
	return &SessMgr{
		save2conns: make(map[string]map[ws.WSConn]struct{}),
		conn2save:  make(map[ws.WSConn]string),
		watched:    make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Subscribe(save string, conn ws.WSConn) {
	if conn == nil || save == "" {
		return
	}
	s.Lock()
	defer s.Unlock()

	// 每条连接一个 watcher，关闭后自动退订
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	if old, ok := s.conn2save[conn]; ok && old != save {
		s.removeLocked(old, conn)
	}
	set := s.save2conns[save]
	if set == nil {
		set = make(map[ws.WSConn]struct{})
		s.save2conns[save] = set
	}
	set[conn] = struct{}{}
	s.conn2save[conn] = save
	conn.SetProperty(ws.ConnKeySave, save)
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.Unsubscribe(conn)
	s.Lock()
	delete(s.watched, conn)
	s.Unlock()
}

func (s *SessMgr) Unsubscribe(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	save, ok := s.conn2save[conn]
	if !ok {
		return
	}
	s.removeLocked(save, conn)
	delete(s.conn2save, conn)
	conn.RemoveProperty(ws.ConnKeySave)
}

func (s *SessMgr) removeLocked(save string, conn ws.WSConn) {
	set := s.save2conns[save]
	delete(set, conn)
	if len(set) == 0 {
		delete(s.save2conns, save)
	}
}

func (s *SessMgr) Conns(save string) []ws.WSConn {
	s.RLock()
	defer s.RUnlock()
	set := s.save2conns[save]
	out := make([]ws.WSConn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

func (s *SessMgr) SaveOf(conn ws.WSConn) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	save, ok := s.conn2save[conn]
	return save, ok
}

// Broadcast 推给存档的全部订阅者，返回推送的连接数。
func (s *SessMgr) Broadcast(save, name string, data any) int {
	conns := s.Conns(save)
	for _, c := range conns {
		c.Push(name, data)
	}
	return len(conns)
}
