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
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/structdb/structdb"
)

var db *structdb.Database

func init() {
	// initialize the Database instance
	var err error
	options := structdb.DefaultOptions
	directory, _ := os.MkdirTemp("", "structdb-http")
	options.DirectoryPath = directory

	db, err = structdb.Open(options)
	if err != nil {
		panic(fmt.Sprintf("failed to open database: %v", err))
	}
}

func handleMapPut(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		http.Error(writer, "Method is not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := request.URL.Query().Get("key")

	var fieldValue map[string]string
	if err := json.NewDecoder(request.Body).Decode(&fieldValue); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	for field, value := range fieldValue {
		if err := db.MapPut([]byte(key), []byte(field), []byte(value)); err != nil {
			http.Error(writer, err.Error(), http.StatusInternalServerError)
			log.Printf("failed to put map field to database: %v\n", err)
			return
		}
	}
}

func handleMapGet(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		http.Error(writer, "Method is not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := request.URL.Query().Get("key")
	field := request.URL.Query().Get("field")

	value, err := db.MapGet([]byte(key), []byte(field))
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		log.Printf("failed to get map field from database: %v\n", err)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(string(value))
}

func handleDeleteAll(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodDelete {
		http.Error(writer, "Method is not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := request.URL.Query().Get("key")

	deleted, err := db.DeleteAll([]byte(key))
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		log.Printf("failed to delete key in database: %v\n", err)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(deleted)
}

func handleListKeys(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		http.Error(writer, "Method is not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := db.Keys()
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	var result []string
	for _, entry := range entries {
		result = append(result, entry.Key)
	}

	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(result)
}

func main() {
	// register the handle methods
	// example command: curl -X POST "localhost:8989/structdb/map/put?key=profile" -d '{"name": "value"}'
	http.HandleFunc("/structdb/map/put", handleMapPut)
	// example command: curl "localhost:8989/structdb/map/get?key=profile&field=name"
	http.HandleFunc("/structdb/map/get", handleMapGet)
	// example command: curl -X DELETE "localhost:8989/structdb/delete?key=profile"
	http.HandleFunc("/structdb/delete", handleDeleteAll)
	// example command: curl "localhost:8989/structdb/listkeys"
	http.HandleFunc("/structdb/listkeys", handleListKeys)

	_ = http.ListenAndServe("localhost:8989", nil)
}
