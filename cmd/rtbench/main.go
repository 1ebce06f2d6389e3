// Command rtbench is a small demonstration that spins up two rtcore
// executors, has one send the other a batch of messages heavy enough to
// force a collection on the receiver, and reports both executors' stats.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"rtcore"
)

func main() {
	stackSize := flag.Int("stack", 4096, "value stack size, in slots")
	heapSize := flag.Int("heap", 1<<12, "initial heap size, in bytes")
	mailbox := flag.Int("mailbox", 256, "mailbox capacity")
	messages := flag.Int("messages", 200, "messages to send")
	flag.Parse()
	rtcore.Args = os.Args

	sender, err := rtcore.NewExecutor(*stackSize, *heapSize, *mailbox)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	receiver, err := rtcore.NewExecutor(*stackSize, *heapSize, *mailbox)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sender.SetProcesses(2)
	receiver.SetProcesses(2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < *messages; i++ {
			args := make([]rtcore.Value, 3)
			args[0] = rtcore.MkInt(int64(i))
			args[1] = sender.MkStr(fmt.Sprintf("payload-%d", i), false)
			args[2] = rtcore.MkInt(int64(i * i))
			msg := sender.MkCon(1, args, false)
			rtcore.Send(sender, receiver, msg)
		}
	}()

	received := 0
	for received < *messages {
		m := receiver.RecvMessageFrom(sender)
		tag := receiver.ConTag(m.Body)
		if tag != 1 || receiver.ConArity(m.Body) != 3 {
			fmt.Fprintf(os.Stderr, "unexpected message shape: tag=%d arity=%d\n", tag, receiver.ConArity(m.Body))
			os.Exit(1)
		}
		received++
	}
	wg.Wait()

	sender.Terminate()
	receiver.Terminate()

	fmt.Println("sender stats:")
	sender.Stats().Fprint(os.Stdout)
	fmt.Println("receiver stats:")
	receiver.Stats().Fprint(os.Stdout)
}
