package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "room":
		handleRoom(args)
	case "member":
		handleMember(args)
	case "booking":
		handleBooking(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roombook auth <register|login|logout|who>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "register":
		registerUser(args[1:])
	case "login":
		loginUser(args[1:])
	case "logout":
		logoutUser()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", subCmd)
	}
}

func handleRoom(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roombook room <list|mine|create|get|delete>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listRooms(false)
	case "mine":
		listRooms(true)
	case "create":
		createRoom(args[1:])
	case "get":
		getRoom(args[1:])
	case "delete":
		deleteRoom(args[1:])
	default:
		fmt.Printf("unknown room command: %s\n", subCmd)
	}
}

func handleMember(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roombook member <list|add|remove>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listMembers(args[1:])
	case "add":
		addMember(args[1:])
	case "remove":
		removeMember(args[1:])
	default:
		fmt.Printf("unknown member command: %s\n", subCmd)
	}
}

func handleBooking(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roombook booking <list|create|delete>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listBookings(args[1:])
	case "create":
		createBooking(args[1:])
	case "delete":
		deleteBooking(args[1:])
	default:
		fmt.Printf("unknown booking command: %s\n", subCmd)
	}
}

// Auth commands
func registerUser(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	name := fs.String("name", "", "display name")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *email == "" || *name == "" || *password == "" {
		fmt.Println("Error: email, name, and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"email":    *email,
		"name":     *name,
		"password": *password,
	}

	result, status, err := postJSON("/auth/register", payload, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ User registered: %s\n", *email)
		if token, ok := result["token"].(string); ok {
			saveToken(token)
		}
	} else {
		fmt.Printf("✗ Registration failed: %v\n", result["error"])
	}
}

func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	result, status, err := postJSON("/auth/login", payload, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusOK {
		if token, ok := result["token"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Logged in as: %s\n", *email)
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result["error"])
	}
}

func logoutUser() {
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	token := loadToken()
	if token == "" {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("✓ Logged in (token: %s...)\n", token[:20])
}

// Room commands
func listRooms(mine bool) {
	path := "/rooms"
	if mine {
		path = "/me/rooms"
	}

	var rooms []map[string]interface{}
	if err := getInto(path, &rooms); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOWNER\tCREATED")
	for _, r := range rooms {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", r["id"], r["name"], r["createdBy"], r["createdAt"])
	}
	w.Flush()
}

func createRoom(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "room name")
	description := fs.String("description", "", "room description")

	fs.Parse(args)

	if *name == "" {
		fmt.Println("Error: name is required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"name": *name, "description": *description}
	result, status, err := postJSON("/rooms", payload, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ Room created: %v\n", result["id"])
	} else {
		fmt.Printf("✗ Create failed: %v\n", result["error"])
	}
}

func getRoom(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roombook room get <room-id>")
		return
	}

	var room map[string]interface{}
	if err := getInto("/rooms/"+args[0], &room); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%v\n", room["id"])
	fmt.Fprintf(w, "NAME\t%v\n", room["name"])
	fmt.Fprintf(w, "DESCRIPTION\t%v\n", room["description"])
	fmt.Fprintf(w, "OWNER\t%v\n", room["createdBy"])
	fmt.Fprintf(w, "CREATED\t%v\n", room["createdAt"])
	w.Flush()
}

func deleteRoom(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roombook room delete <room-id>")
		return
	}
	if err := doDelete("/rooms/" + args[0]); err != nil {
		fmt.Printf("✗ Delete failed: %v\n", err)
		return
	}
	fmt.Println("✓ Room deleted (bookings and members removed)")
}

// Member commands
func listMembers(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roombook member list <room-id>")
		return
	}

	var members []map[string]interface{}
	if err := getInto("/rooms/"+args[0]+"/members", &members); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tROLE")
	for _, m := range members {
		fmt.Fprintf(w, "%v\t%v\t%v\n", m["id"], m["email"], m["role"])
	}
	w.Flush()
}

func addMember(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	room := fs.String("room", "", "room id")
	email := fs.String("email", "", "email of the user to add")
	role := fs.String("role", "user", "role to grant (admin|user)")

	fs.Parse(args)

	if *room == "" || *email == "" {
		fmt.Println("Error: room and email are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "role": *role}
	result, status, err := postJSON("/rooms/"+*room+"/members", payload, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ Member added: %v (%v)\n", result["email"], result["role"])
	} else {
		fmt.Printf("✗ Add failed: %v\n", result["error"])
	}
}

func removeMember(args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	room := fs.String("room", "", "room id")
	member := fs.String("member", "", "membership id")

	fs.Parse(args)

	if *room == "" || *member == "" {
		fmt.Println("Error: room and member are required")
		fs.PrintDefaults()
		return
	}

	if err := doDelete("/rooms/" + *room + "/members/" + *member); err != nil {
		fmt.Printf("✗ Remove failed: %v\n", err)
		return
	}
	fmt.Println("✓ Member removed")
}

// Booking commands
func listBookings(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: roombook booking list <room-id>")
		return
	}

	var bookings []map[string]interface{}
	if err := getInto("/rooms/"+args[0]+"/bookings", &bookings); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTART\tEND\tBOOKED BY\tDESCRIPTION")
	for _, b := range bookings {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", b["id"], b["start"], b["end"], b["userId"], b["description"])
	}
	w.Flush()
}

func createBooking(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	room := fs.String("room", "", "room id")
	start := fs.String("start", "", "start time (RFC 3339)")
	end := fs.String("end", "", "end time (RFC 3339, exclusive)")
	description := fs.String("description", "", "booking description")

	fs.Parse(args)

	if *room == "" || *start == "" || *end == "" {
		fmt.Println("Error: room, start, and end are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"start":       *start,
		"end":         *end,
		"description": *description,
	}
	result, status, err := postJSON("/rooms/"+*room+"/bookings", payload, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ Booking created: %v\n", result["id"])
	} else {
		fmt.Printf("✗ Booking failed: %v\n", result["error"])
	}
}

func deleteBooking(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	room := fs.String("room", "", "room id")
	booking := fs.String("booking", "", "booking id")

	fs.Parse(args)

	if *room == "" || *booking == "" {
		fmt.Println("Error: room and booking are required")
		fs.PrintDefaults()
		return
	}

	if err := doDelete("/rooms/" + *room + "/bookings/" + *booking); err != nil {
		fmt.Printf("✗ Delete failed: %v\n", err)
		return
	}
	fmt.Println("✓ Booking deleted")
}

// Helper functions
func getAPIURL() string {
	if url := os.Getenv("ROOMBOOK_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func postJSON(path string, payload map[string]string, authed bool) (map[string]interface{}, int, error) {
	data, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", getAPIURL()+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		addAuthHeader(req)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return result, resp.StatusCode, nil
}

func getInto(path string, out interface{}) error {
	req, err := http.NewRequest("GET", getAPIURL()+path, nil)
	if err != nil {
		return err
	}
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func doDelete(path string) error {
	req, err := http.NewRequest("DELETE", getAPIURL()+path, nil)
	if err != nil {
		return err
	}
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var parsed struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		return fmt.Errorf("%s", parsed.Error)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.roombook/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.roombook", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`roombook CLI

Usage:
  roombook <command> [options]

Commands:
  auth register -email <email> -name <name> -password <pw>
  auth login -email <email> -password <pw>
  auth logout
  auth who

  room list
  room mine
  room create -name <name> [-description <text>]
  room get <room-id>
  room delete <room-id>

  member list <room-id>
  member add -room <room-id> -email <email> [-role admin|user]
  member remove -room <room-id> -member <member-id>

  booking list <room-id>
  booking create -room <room-id> -start <rfc3339> -end <rfc3339> [-description <text>]
  booking delete -room <room-id> -booking <booking-id>

Environment:
  ROOMBOOK_API  API base URL (default http://localhost:8080/api)
`)
}
