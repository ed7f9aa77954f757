/*
 * Copyright (c) 2024. Shuojiang Liu.
 * Licensed under the MIT License (the "License");
 * you may not use this file except in compliance with the License.
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"log"
	"sync"

	"github.com/structdb/structdb"
	"github.com/tidwall/redcon"
)

// address can be modified to a custom value
const addr = "127.0.0.1:6380"

type StructDBServer struct {
	db     *structdb.Database
	server *redcon.Server
	mu     sync.RWMutex
}

func main() {
	db, err := structdb.Open(structdb.DefaultOptions)
	if err != nil {
		panic(err)
	}

	structdbServer := &StructDBServer{db: db}
	structdbServer.server = redcon.NewServer(addr, execClientCommand, structdbServer.accept, structdbServer.close)
	structdbServer.listen()
}

func (ss *StructDBServer) listen() {
	log.Println("StructDB server is running, ready for accepting connections...")
	_ = ss.server.ListenAndServe()
}

func (ss *StructDBServer) accept(conn redcon.Conn) bool {
	cli := new(StructDBClient)
	ss.mu.Lock()
	defer ss.mu.Unlock()

	cli.server = ss
	cli.db = ss.db
	conn.SetContext(cli)

	return true
}

func (ss *StructDBServer) close(conn redcon.Conn, err error) {
	_ = ss.db.Close()
}
